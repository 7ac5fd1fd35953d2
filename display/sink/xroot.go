package sink

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"gitlab.com/tinyland/lab/dwmstatus/display/statusline"
)

// XRoot sets the root window's WM_NAME, which dwm shows as its status text.
type XRoot struct {
	mu   sync.Mutex
	conn *xgb.Conn
	root xproto.Window
}

// NewXRoot connects to display ("" uses $DISPLAY) and resolves the default
// screen's root window.
func NewXRoot(display string) (*XRoot, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("sink: open display %q: %w", display, err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	return &XRoot{conn: conn, root: screen.Root}, nil
}

// Publish replaces WM_NAME and waits for the server to acknowledge it.
func (x *XRoot) Publish(f statusline.Frame) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.conn == nil {
		return fmt.Errorf("sink: xroot: connection closed")
	}
	b := []byte(f.Text)
	err := xproto.ChangePropertyChecked(x.conn, xproto.PropModeReplace, x.root,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(b)), b).Check()
	if err != nil {
		return fmt.Errorf("sink: xroot: set WM_NAME: %w", err)
	}
	return nil
}

// Close releases the display connection. It is safe to call more than once.
func (x *XRoot) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.conn != nil {
		x.conn.Close()
		x.conn = nil
	}
	return nil
}

var _ Sink = (*XRoot)(nil)
