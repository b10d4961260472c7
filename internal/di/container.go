// Package di provides a minimal service container with typed tokens.
// Factories are registered per token and resolved lazily, memoized on
// first use.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get returns the service registered under key, resolving its
	// factory on first access. Panics if the key is unknown.
	Get(key string) any
}

// Container is the full registration + resolution surface.
type Container interface {
	ServiceRegistry

	// Register stores a ready-made instance under key.
	Register(key string, instance any)

	// RegisterFactory stores a lazy constructor under key.
	RegisterFactory(key string, factory func(ServiceRegistry) any)
}

type container struct {
	mu        sync.Mutex
	instances map[string]any
	factories map[string]func(ServiceRegistry) any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		instances: make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
	}
}

func (c *container) Register(key string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[key] = instance
}

func (c *container) RegisterFactory(key string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[key] = factory
}

func (c *container) Get(key string) any {
	c.mu.Lock()
	if instance, ok := c.instances[key]; ok {
		c.mu.Unlock()
		return instance
	}
	factory, ok := c.factories[key]
	c.mu.Unlock()

	if !ok {
		panic(fmt.Sprintf("di: no service registered for %q", key))
	}

	// Resolve outside the lock so factories can pull their own deps.
	instance := factory(c)

	c.mu.Lock()
	c.instances[key] = instance
	c.mu.Unlock()

	return instance
}
