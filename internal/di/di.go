// Package di provides a minimal dependency injection container with typed tokens.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry resolves registered services by name.
type ServiceRegistry interface {
	Get(name string) any
}

// Container registers services and resolves them.
type Container interface {
	ServiceRegistry
	Register(name string, v any)
	RegisterFactory(name string, factory func(ServiceRegistry) any)
	Has(name string) bool
}

// Token is a typed handle for a registered service.
type Token[T any] struct {
	name string
}

// NewToken creates a token for a service named name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the registration name.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a lazy singleton factory for the token.
func RegisterToken[T any](c Container, token Token[T], factory func(sr ServiceRegistry) T) {
	c.RegisterFactory(token.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves the service behind token. It panics when the service is missing
// or has the wrong type.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	v := sr.Get(token.name)
	t, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has type %T", token.name, v))
	}
	return t
}

type entry struct {
	once     sync.Once
	factory  func(ServiceRegistry) any
	instance any
}

type container struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{entries: make(map[string]*entry)}
}

func (c *container) Register(name string, v any) {
	e := &entry{instance: v}
	e.once.Do(func() {})

	c.mu.Lock()
	c.entries[name] = e
	c.mu.Unlock()
}

func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	c.entries[name] = &entry{factory: factory}
	c.mu.Unlock()
}

func (c *container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[name]
	return ok
}

func (c *container) Get(name string) any {
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("di: service %q is not registered", name))
	}

	e.once.Do(func() {
		e.instance = e.factory(c)
	})
	return e.instance
}
