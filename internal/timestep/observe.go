package timestep

import "time"

// Handler receives every event it subscribed to together with the emitting
// clock.
type Handler func(c *Clock, ev Event)

// Subscription removes a handler. The zero value is a no-op.
type Subscription struct {
	cancel func()
}

// Unsubscribe removes the handler. Calling it more than once is harmless.
// An emission already in progress still reaches every handler that was
// subscribed when it began.
func (s Subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type listener struct {
	id   uint64
	kind Kind
	all  bool
	h    Handler
}

type tickHook struct {
	fn func(elapsed time.Duration)
}

// Subscribe registers h for events of kind.
func (c *Clock) Subscribe(kind Kind, h Handler) Subscription {
	return c.add(&listener{kind: kind, h: h})
}

// SubscribeAll registers h for every event kind.
func (c *Clock) SubscribeAll(h Handler) Subscription {
	return c.add(&listener{all: true, h: h})
}

// Once registers h for the next event of kind only.
func (c *Clock) Once(kind Kind, h Handler) Subscription {
	var sub Subscription
	fired := false
	sub = c.Subscribe(kind, func(c *Clock, ev Event) {
		if fired {
			return
		}
		fired = true
		sub.Unsubscribe()
		h(c, ev)
	})
	return sub
}

// OnTick registers fn to observe every elapsed duration passed to Tick,
// before any event of that tick is emitted.
func (c *Clock) OnTick(fn func(elapsed time.Duration)) Subscription {
	h := &tickHook{fn: fn}
	c.tickHooks = append(c.tickHooks, h)
	return Subscription{cancel: func() {
		kept := make([]*tickHook, 0, len(c.tickHooks))
		for _, other := range c.tickHooks {
			if other != h {
				kept = append(kept, other)
			}
		}
		c.tickHooks = kept
	}}
}

func (c *Clock) add(l *listener) Subscription {
	c.nextID++
	l.id = c.nextID
	// Listener slices are copy-on-write so an emission can range over the
	// slice it started with.
	next := make([]*listener, len(c.listeners), len(c.listeners)+1)
	copy(next, c.listeners)
	c.listeners = append(next, l)
	return Subscription{cancel: func() { c.remove(l.id) }}
}

func (c *Clock) remove(id uint64) {
	kept := make([]*listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		if l.id != id {
			kept = append(kept, l)
		}
	}
	c.listeners = kept
}

// Listeners returns how many handlers are subscribed to kind, counting
// SubscribeAll handlers.
func (c *Clock) Listeners(kind Kind) int {
	n := 0
	for _, l := range c.listeners {
		if l.all || l.kind == kind {
			n++
		}
	}
	return n
}

func (c *Clock) emit(ev Event) {
	kind := ev.Kind()
	for _, l := range c.listeners {
		if l.all || l.kind == kind {
			l.h(c, ev)
		}
	}
}
