package motion

import (
	"fmt"
	"sort"
	"sync"
)

// Registry indexes running devices by name for the control surface.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Device
}

func NewRegistry() *Registry {
	return &Registry{devices: make(map[string]*Device)}
}

// Add registers d under its name.
func (r *Registry) Add(d *Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[d.name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDevice, d.name)
	}
	r.devices[d.name] = d
	return nil
}

// Remove unregisters and returns the named device, or nil if it is unknown.
func (r *Registry) Remove(name string) *Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.devices[name]
	delete(r.devices, name)
	return d
}

func (r *Registry) Get(name string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, name)
	}
	return d, nil
}

// Names returns the registered device names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.devices))
	for n := range r.devices {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Toggle applies t to the named device.
func (r *Registry) Toggle(name string, t Toggle) (Mode, error) {
	d, err := r.Get(name)
	if err != nil {
		return ModeMove, err
	}
	return d.Toggle(t)
}

// CloseAll stops every registered device and empties the registry.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	devices := r.devices
	r.devices = make(map[string]*Device)
	r.mu.Unlock()

	var first error
	for _, d := range devices {
		if err := d.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
