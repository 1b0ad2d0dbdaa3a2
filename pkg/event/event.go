// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	BodyAdded         Type = "body_added"
	BodyCollision     Type = "body_collision"
	BoundaryBounce    Type = "boundary_bounce"
	WorldReloaded     Type = "world_reloaded"
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, r := range regs {
		if r.id == id {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers. Handlers run on the
// publishing goroutine, in subscription order.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	regs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, r := range regs {
		r.handler(event)
	}
}

// BodyEvent reports a body entering the world
type BodyEvent struct {
	BaseEvent
	BodyID uint64
	Shape  string
	Static bool
}

// NewBodyEvent creates a new body event
func NewBodyEvent(source interface{}, bodyID uint64, shape string, static bool) *BodyEvent {
	return &BodyEvent{
		BaseEvent: BaseEvent{
			EventType: BodyAdded,
			Source:    source,
		},
		BodyID: bodyID,
		Shape:  shape,
		Static: static,
	}
}

// CollisionEvent contains information about a body collision. NormalX and
// NormalY point from BodyA towards BodyB when HasNormal is set.
type CollisionEvent struct {
	BaseEvent
	BodyA     uint64
	BodyB     uint64
	NormalX   float32
	NormalY   float32
	HasNormal bool
	Tick      uint64
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, bodyA, bodyB uint64, tick uint64) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{
			EventType: BodyCollision,
			Source:    source,
		},
		BodyA: bodyA,
		BodyB: bodyB,
		Tick:  tick,
	}
}

// WithNormal sets the contact normal and returns the event
func (e *CollisionEvent) WithNormal(x, y float32) *CollisionEvent {
	e.NormalX, e.NormalY = x, y
	e.HasNormal = true
	return e
}

// BounceEvent reports a body rebounding off the world boundary
type BounceEvent struct {
	BaseEvent
	BodyID uint64
	Edge   string
	Speed  float32
	Tick   uint64
}

// NewBounceEvent creates a new bounce event
func NewBounceEvent(source interface{}, bodyID uint64, edge string, speed float32, tick uint64) *BounceEvent {
	return &BounceEvent{
		BaseEvent: BaseEvent{
			EventType: BoundaryBounce,
			Source:    source,
		},
		BodyID: bodyID,
		Edge:   edge,
		Speed:  speed,
		Tick:   tick,
	}
}
