// Package event implements the runtime's event, alarm, clock and power
// domain primitives (spec §4.J), grounded on io_core.h's io_event_t /
// io_alarm_t / io_cpu_clock_t / io_cpu_power_domain_t families. The
// original's function-pointer vtables for clock and power domain
// implementations become small closed Go interfaces (spec §9 REDESIGN
// FLAGS); the event and alarm queues keep their original intrusive
// linked-list shape since that's what makes raising an event from an
// interrupt handler allocation-free.
package event

// Time is a monotonic instant in nanoseconds (io_time_t).
type Time int64

const (
	Nanosecond  Time = 1
	Microsecond      = 1000 * Nanosecond
	Millisecond      = 1000 * Microsecond
	Second           = 1000 * Millisecond
	Minute           = 60 * Second
)

// MaxTime sentinels an alarm queue's tail (spec §4.J "sentinel when=MAX").
const MaxTime Time = 1<<63 - 1

// Handler is called when an event is raised (io_event_handler_t).
type Handler func(*Event)

// Event is a one-shot, allocation-free notification: raising it appends
// it to a runtime's FIFO queue (a no-op while it is already queued), and
// the runtime's event loop later calls its handler once per time it was
// queued (io_event_t). It carries no
// payload of its own — handlers read whatever state their UserValue
// points at.
type Event struct {
	handler   Handler
	UserValue interface{}
	queued    bool
	next      *Event
}

// NewEvent builds an event bound to handler, carrying userValue for the
// handler to inspect (initialise_io_event).
func NewEvent(handler Handler, userValue interface{}) *Event {
	return &Event{handler: handler, UserValue: userValue}
}

// IsQueued reports whether the event is currently pending in a runtime's
// FIFO queue (mirrors the original's "is this event->next non-null or
// this the tail" check, exposed directly since Go has no such pointer
// trick available to callers).
func (e *Event) IsQueued() bool { return e.queued }

// Bind replaces the event's handler and user value in place, letting a
// socket reuse one Event allocation across its lifetime rather than
// allocating a fresh one per bind (mirrors initialise_io_event being
// callable on an already-declared io_event_t).
func (e *Event) Bind(handler Handler, userValue interface{}) {
	e.handler = handler
	e.UserValue = userValue
}

// queue is the FIFO intrusive list backing a runtime's pending events
// (io->events, enqueue_io_event/dequeue_io_event/do_next_io_event).
type queue struct {
	head *Event
	tail *Event
}

func (q *queue) enqueue(e *Event) {
	if e.queued {
		return
	}
	e.queued = true
	e.next = nil
	if q.tail == nil {
		q.head, q.tail = e, e
		return
	}
	q.tail.next = e
	q.tail = e
}

func (q *queue) dequeue(e *Event) {
	if !e.queued {
		return
	}
	if q.head == e {
		q.head = e.next
		if q.tail == e {
			q.tail = nil
		}
	} else {
		for cur := q.head; cur != nil; cur = cur.next {
			if cur.next == e {
				cur.next = e.next
				if q.tail == e {
					q.tail = cur
				}
				break
			}
		}
	}
	e.queued = false
	e.next = nil
}

// pop pops and runs the head event, reporting whether one was run
// (do_next_io_event).
func (q *queue) pop() bool {
	e := q.head
	if e == nil {
		return false
	}
	q.dequeue(e)
	if e.handler != nil {
		e.handler(e)
	}
	return true
}
