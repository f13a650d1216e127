package core

import (
	"fmt"
	"reflect"
	"sync"
)

// Registrar is the hook modules use during Initialize to contribute
// capabilities to the shared registry.
type Registrar interface {
	Set(key any, val any)
}

// Container is the host's service registry. It is safe for concurrent use.
type Container interface {
	Registrar
	Get(key any) (any, bool)
	MustGet(key any) any
	Keys() []any
}

type container struct {
	mu   sync.RWMutex
	reg  map[any]any
	keys []any
}

func NewContainer() Container {
	return &container{reg: make(map[any]any)}
}

func (c *container) Set(key, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.reg[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.reg[key] = val
}

func (c *container) Get(key any) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.reg[key]
	return v, ok
}

func (c *container) MustGet(key any) any {
	if v, ok := c.Get(key); ok {
		return v
	}
	panic(fmt.Errorf("container: missing dependency %v (%T)", key, key))
}

// Keys returns registered keys in registration order.
func (c *container) Keys() []any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]any(nil), c.keys...)
}

// Helpers for typed keys
type TypeKey[T any] struct{}

func Put[T any](c Registrar, v T) { c.Set(TypeKey[T]{}, v) }

func Get[T any](c Container) T {
	raw := c.MustGet(TypeKey[T]{})
	v, ok := raw.(T)
	if !ok {
		panic(fmt.Errorf("container: wrong type. have=%T want=%v", raw, reflect.TypeFor[T]()))
	}
	return v
}

// Lookup is Get without the panic.
func Lookup[T any](c Container) (T, bool) {
	var zero T
	raw, ok := c.Get(TypeKey[T]{})
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
