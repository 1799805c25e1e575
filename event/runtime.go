package event

import "github.com/abstractsig/io-core/ioc"

// Runtime ties together the event and alarm queues a board's io_t would
// otherwise carry inline (IO_STRUCT_MEMBERS); board and socket code hold
// a *Runtime and use it to raise events, arm alarms, and read the clock
// rather than reaching into global state.
type Runtime struct {
	events *queue
	alarms *alarmQueue
	now    func() Time
	Log    *ioc.Logger

	// AlarmTolerance bounds how late a due alarm may be dispatched before
	// its Error event fires in place of At (spec §4.J). The zero value
	// disables the check, matching a board with no notion of "late" —
	// every due alarm simply fires At.
	AlarmTolerance Time
}

// NewRuntime builds a runtime whose clock is driven by nowFn — a
// simulation can pass a manually-advanced clock, hardware a free-running
// counter (initialise_io, minus the vtable: everything Runtime does not
// own is reached through the Clock/PowerDomain/Socket interfaces
// instead).
func NewRuntime(nowFn func() Time, log *ioc.Logger) *Runtime {
	return &Runtime{events: &queue{}, alarms: newAlarmQueue(), now: nowFn, Log: log}
}

// Signal appends e to the pending FIFO queue if it isn't already queued
// (enqueue_io_event).
func (r *Runtime) Signal(e *Event) { r.events.enqueue(e) }

// Cancel removes e from the pending queue if present (dequeue_io_event).
func (r *Runtime) Cancel(e *Event) { r.events.dequeue(e) }

// NextEvent runs the oldest pending event's handler, reporting whether
// one was run (do_next_io_event / next_event).
func (r *Runtime) NextEvent() bool { return r.events.pop() }

// GetTime reads the runtime's clock (io_get_time).
func (r *Runtime) GetTime() Time {
	if r.now == nil {
		return 0
	}
	return r.now()
}

// ArmAlarm schedules a to fire when == When (enqueue_io_alarm).
func (r *Runtime) ArmAlarm(a *Alarm) { r.alarms.enqueue(a) }

// ArmAlarmAfter schedules a to fire delay after the current time
// (set_alarm_delay_time).
func (r *Runtime) ArmAlarmAfter(a *Alarm, delay Time) {
	a.When = r.GetTime() + delay
	r.alarms.enqueue(a)
}

// CancelAlarm removes a if queued (dequeue_io_alarm).
func (r *Runtime) CancelAlarm(a *Alarm) { r.alarms.dequeue(a) }

// ExpireAlarms raises every alarm whose When has passed, and returns how
// many fired — callers run this once per tick alongside NextEvent. With a
// positive AlarmTolerance, an alarm dispatched AlarmTolerance or more after
// its When raises Error (if it has one) instead of At.
func (r *Runtime) ExpireAlarms() int {
	return r.alarms.expire(r.GetTime(), r.AlarmTolerance, r.Signal)
}

// NextAlarmDeadline reports the earliest armed alarm's When.
func (r *Runtime) NextAlarmDeadline() (Time, bool) { return r.alarms.nextDeadline() }

// RunToQuiescence drains events and expired alarms until neither
// produces further work (io_wait_for_all_events, specialised to a
// non-blocking simulation runtime: a real board instead sleeps between
// iterations).
func (r *Runtime) RunToQuiescence() {
	for {
		did := false
		for r.NextEvent() {
			did = true
		}
		if r.ExpireAlarms() > 0 {
			did = true
			continue
		}
		if !did {
			return
		}
	}
}
