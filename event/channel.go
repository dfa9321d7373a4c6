package event

import (
	"blinky-go/errcode"
	"blinky-go/fault"
	"blinky-go/x/critsec"
)

// Order is the removal discipline of a Channel.
type Order uint8

const (
	// LIFO removes the most recently submitted event first.
	LIFO Order = iota
	// FIFO removes the oldest event first.
	FIFO
)

func (o Order) String() string {
	if o == FIFO {
		return "fifo"
	}
	return "lifo"
}

// ParseOrder accepts "lifo" or "fifo"; empty means LIFO.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "lifo":
		return LIFO, nil
	case "fifo":
		return FIFO, nil
	}
	return LIFO, &errcode.E{C: errcode.InvalidParams, Op: "event.ParseOrder", Msg: s}
}

const defaultCapacity = 8

// Channel is the single shared event container. Every access runs inside the
// critical section guard, so producers may call Submit from interrupt context
// while the foreground loop is in TryTake.
type Channel struct {
	g     *critsec.Guard
	order Order
	limit int
	capa  int

	buf  []Event // nil until Initialize
	head int     // FIFO read index
}

type Option func(*Channel)

func WithOrder(o Order) Option { return func(c *Channel) { c.order = o } }

// WithLimit bounds the number of queued events. Growing past the limit halts
// the device with out_of_memory. Zero means unbounded.
func WithLimit(n int) Option { return func(c *Channel) { c.limit = n } }

// WithCapacity presizes the backing container of an unbounded channel on
// Initialize. Bounded channels are always sized to their limit.
func WithCapacity(n int) Option { return func(c *Channel) { c.capa = n } }

func NewChannel(g *critsec.Guard, opts ...Option) *Channel {
	c := &Channel{g: g, capa: defaultCapacity}
	for _, o := range opts {
		o(c)
	}
	if c.capa <= 0 {
		c.capa = defaultCapacity
	}
	if c.limit > 0 {
		// A bounded channel is allocated in full up front so Submit never
		// grows it from interrupt context.
		c.capa = c.limit
	}
	return c
}

// Initialize creates the backing container. It must run before any producer
// is enabled; later calls are no-ops and keep queued events.
func (c *Channel) Initialize() {
	c.g.Enter()
	defer c.g.Exit()
	if c.buf == nil {
		c.buf = make([]Event, 0, c.capa)
	}
}

// Submit appends e. Safe from interrupt and foreground context. Never blocks.
func (c *Channel) Submit(e Event) {
	c.g.Enter()
	defer c.g.Exit()
	if c.buf == nil {
		fault.Stop(errcode.ChannelUninit)
		return
	}
	if c.limit > 0 && len(c.buf)-c.head >= c.limit {
		fault.Stop(errcode.OutOfMemory)
		return
	}
	if c.order == FIFO && c.head > 0 && len(c.buf) == cap(c.buf) {
		c.compact()
	}
	c.buf = append(c.buf, e)
}

// TryTake removes one event, or reports false when the channel is empty.
func (c *Channel) TryTake() (Event, bool) {
	c.g.Enter()
	defer c.g.Exit()
	if c.buf == nil {
		fault.Stop(errcode.ChannelUninit)
		return Event{}, false
	}
	if len(c.buf) == c.head {
		return Event{}, false
	}
	var e Event
	if c.order == FIFO {
		e = c.buf[c.head]
		c.head++
		if c.head == len(c.buf) {
			c.buf = c.buf[:0]
			c.head = 0
		}
		return e, true
	}
	n := len(c.buf) - 1
	e = c.buf[n]
	c.buf = c.buf[:n]
	return e, true
}

// Len returns the number of queued events.
func (c *Channel) Len() int {
	c.g.Enter()
	defer c.g.Exit()
	return len(c.buf) - c.head
}

// Initialized reports whether Initialize has run.
func (c *Channel) Initialized() bool {
	c.g.Enter()
	defer c.g.Exit()
	return c.buf != nil
}

func (c *Channel) Order() Order { return c.order }

// compact slides live FIFO entries to the front. Caller holds the guard.
func (c *Channel) compact() {
	n := copy(c.buf, c.buf[c.head:])
	c.buf = c.buf[:n]
	c.head = 0
}
