// Package commands is the shared automation vocabulary: reusable operations
// that work across pages, registered once by name and looked up at run time.
package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
)

var (
	// ErrDuplicateCommand is returned when a name is registered twice
	ErrDuplicateCommand = errors.New("command already registered")
	// ErrSealed is returned when registering after the registry was sealed
	ErrSealed = errors.New("command registry is sealed")
	// ErrUnknownCommand is returned when running a name nobody registered
	ErrUnknownCommand = errors.New("unknown command")
)

// Handler runs one command against the test environment
type Handler func(ctx context.Context, env *Env, args Args) (any, error)

// Registry maps command names to handlers. It is filled during startup,
// sealed, and only read afterwards; Register is not safe for concurrent use.
type Registry struct {
	handlers map[string]Handler
	sealed   bool
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler under name
func (r *Registry) Register(name string, h Handler) error {
	if r.sealed {
		return fmt.Errorf("register %q: %w", name, ErrSealed)
	}
	if name == "" || h == nil {
		return fmt.Errorf("register %q: empty name or nil handler", name)
	}
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateCommand)
	}
	r.handlers[name] = h
	return nil
}

// MustRegister is Register for static tables; it panics on error
func (r *Registry) MustRegister(name string, h Handler) {
	if err := r.Register(name, h); err != nil {
		panic(err)
	}
}

// Seal forbids further registrations
func (r *Registry) Seal() { r.sealed = true }

func (r *Registry) Sealed() bool { return r.sealed }

func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns every registered name in sorted order
func (r *Registry) Names() []string {
	return sortedNames(r.handlers)
}

func sortedNames(handlers map[string]Handler) []string {
	names := maps.Keys(handlers)
	slices.Sort(names)
	return names
}

// Run executes the named command
func (r *Registry) Run(ctx context.Context, env *Env, name string, args ...any) (any, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	out, err := h(ctx, env, Args(args))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
