// Package backend defines the packet-submission side of the frontend/
// backend boundary: the Bridge interface a renderer implements, a registry
// for naming and constructing Bridge implementations, and a stub Bridge that
// validates and counts packets without rendering anything.
//
// Grounded on gogpu-gg's recording package: the same database/sql-style
// Register/NewBackend registry (recording/registry.go), generalized from
// export-format backends (PDF/SVG/raster) to renderer backends (Metal,
// stub), and the Bridge interface itself modeled on recording.Backend's
// Begin/End lifecycle shape but resurfaced around packet.Sink's
// Init/BeginFrame/Present/Shutdown state machine instead of 2D drawing
// commands.
package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dx9mt/dx9mt/packet"
)

// Bridge is the interface a packet-consuming renderer implements.
// SubmitPackets receives one frame's accumulated packet.Stream bytes.
type Bridge interface {
	Init() error
	UpdatePresentTarget(t packet.PresentTarget) error
	BeginFrame(frameID uint32) error
	SubmitPackets(b []byte) error
	Present(frameID uint32) error
	Shutdown()
	Stats() packet.FrameStats
}

// Factory creates a new Bridge instance. Factories are registered via
// Register, typically from a backend package's init().
type Factory func() Bridge

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register registers a Bridge factory under name. Panics if factory is nil
// or name is already registered, catching duplicate registration at program
// init rather than silently shadowing a backend.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("backend: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("backend: Register called twice for " + name)
	}
	factories[name] = factory
}

// Unregister removes a backend from the registry, primarily for test
// cleanup between subtests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// New constructs a new Bridge instance by name.
func New(name string) (Bridge, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("backend: unknown backend %q (forgotten import?)", name)
	}
	return factory(), nil
}

// MustNew constructs a new Bridge instance by name, panicking on error.
func MustNew(name string) Bridge {
	b, err := New(name)
	if err != nil {
		panic(err)
	}
	return b
}

// Names returns a sorted list of registered backend names.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name is a registered backend.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}
