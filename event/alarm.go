package event

// Alarm raises At when When is reached, or Error if the runtime cannot
// honour that time (a clock stopped, a deadline already passed —
// io_alarm_t). Alarms live on a single runtime-owned, time-ordered
// intrusive list; an alarm not currently queued has next == nil.
type Alarm struct {
	At    *Event
	Error *Event
	When  Time
	next  *Alarm
}

// NewAlarm builds an inactive alarm (initialise_io_alarm).
func NewAlarm(at, errEvent *Event, when Time) *Alarm {
	return &Alarm{At: at, Error: errEvent, When: when}
}

// IsActive reports whether the alarm is currently queued
// (is_io_alarm_active: "next_alarm != NULL").
func (a *Alarm) IsActive() bool { return a.next != nil }

// alarmQueue is a time-ordered singly linked list terminated by a fixed
// sentinel node whose When is MaxTime, so insertion never needs a nil
// check at the tail (spec §4.J).
type alarmQueue struct {
	head     *Alarm
	sentinel Alarm
}

func newAlarmQueue() *alarmQueue {
	q := &alarmQueue{}
	q.sentinel.When = MaxTime
	q.head = &q.sentinel
	return q
}

// enqueue inserts a in time order (enqueue_io_alarm). Re-enqueuing an
// already-active alarm first removes it, so updating When moves it to
// its new position.
func (q *alarmQueue) enqueue(a *Alarm) {
	q.dequeue(a)
	prev := (*Alarm)(nil)
	cur := q.head
	for cur != &q.sentinel && cur.When <= a.When {
		prev = cur
		cur = cur.next
	}
	a.next = cur
	if prev == nil {
		q.head = a
	} else {
		prev.next = a
	}
}

// dequeue removes a if it is queued (dequeue_io_alarm); a no-op
// otherwise.
func (q *alarmQueue) dequeue(a *Alarm) {
	if a.next == nil && a != q.head {
		return
	}
	if q.head == a {
		q.head = a.next
		a.next = nil
		return
	}
	for cur := q.head; cur != &q.sentinel; cur = cur.next {
		if cur.next == a {
			cur.next = a.next
			a.next = nil
			return
		}
	}
}

// expire dequeues every alarm due at or before now and signals it,
// returning how many fired. tolerance <= 0 disables lateness checking
// entirely, so a due alarm always signals At. Otherwise an alarm whose When
// is at or before now-tolerance is considered too late for At to still be
// meaningful and signals Error instead, provided one was given (spec
// §4.J: "if head's when <= now - tolerance, its error event fires; if
// head's when <= now, its at event fires").
func (q *alarmQueue) expire(now, tolerance Time, raise func(*Event)) int {
	fired := 0
	for q.head != &q.sentinel && q.head.When <= now {
		a := q.head
		q.head = a.next
		a.next = nil
		if tolerance > 0 && a.When <= now-tolerance && a.Error != nil {
			raise(a.Error)
		} else if a.At != nil {
			raise(a.At)
		}
		fired++
	}
	return fired
}

// nextDeadline reports the When of the earliest queued alarm, and false
// if none are queued.
func (q *alarmQueue) nextDeadline() (Time, bool) {
	if q.head == &q.sentinel {
		return 0, false
	}
	return q.head.When, true
}
