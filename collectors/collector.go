// Package collectors provides the sensor collection interface and registration
// for dwmstatus. Each collector reads one family of OS-exposed sources and
// fills its part of a Reading.
package collectors

import (
	"context"
	"time"
)

// Collector is the interface that all sensor collectors must implement.
// Collectors never fail on missing data: an unreadable source leaves a
// sentinel in the Reading and appends a warning instead.
type Collector interface {
	// Name returns the collector's unique identifier (e.g., "cpu", "battery").
	// Names must be unique within a Registry.
	Name() string

	// Description returns a human-readable description of what this collector reads.
	Description() string

	// Collect fills the collector's fields of r. The only error returned is
	// the context's, when it is cancelled before collection starts.
	Collect(ctx context.Context, r *Reading) error
}

// Registry holds registered collectors in registration order.
type Registry struct {
	collectors []Collector
}

// NewRegistry creates a new empty collector registry.
func NewRegistry() *Registry {
	return &Registry{
		collectors: make([]Collector, 0),
	}
}

// Register adds a collector to the registry.
// If a collector with the same name already exists, it is replaced.
func (r *Registry) Register(c Collector) {
	for i, existing := range r.collectors {
		if existing.Name() == c.Name() {
			r.collectors[i] = c
			return
		}
	}
	r.collectors = append(r.collectors, c)
}

// All returns all registered collectors in registration order.
func (r *Registry) All() []Collector {
	result := make([]Collector, len(r.collectors))
	copy(result, r.collectors)
	return result
}

// Sample runs every registered collector in order against a fresh Reading.
// Collectors run sequentially; a whole pass touches a handful of small files.
func (r *Registry) Sample(ctx context.Context) (*Reading, error) {
	reading := &Reading{
		Timestamp:    time.Now(),
		BatteryState: BatteryUnknown,
	}
	for _, c := range r.collectors {
		if err := c.Collect(ctx, reading); err != nil {
			return nil, err
		}
	}
	return reading, nil
}
