package ioc

// PanicCode enumerates the unrecoverable conditions named in spec §6. Only
// a genuine structural/invariant violation should reach these — allocation
// failure and not-found conditions are surfaced as ordinary return values
// elsewhere in this module (§7).
type PanicCode int32

const (
	UnrecoverableError   PanicCode = 1
	SomethingBadHappened PanicCode = 2
	DeviceError          PanicCode = 3
	OutOfMemory          PanicCode = 4
	TimeClockError       PanicCode = 5
	InvalidOperation     PanicCode = 6
)

func (c PanicCode) String() string {
	switch c {
	case UnrecoverableError:
		return "unrecoverable error"
	case SomethingBadHappened:
		return "something bad happened"
	case DeviceError:
		return "device error"
	case OutOfMemory:
		return "out of memory"
	case TimeClockError:
		return "time/clock error"
	case InvalidOperation:
		return "invalid operation"
	default:
		return "unknown panic code"
	}
}

// Halt is invoked by PanicWithCode after logging; on the target firmware
// this spins forever. Tests replace it so a panicking code path can be
// observed without hanging the test binary.
var Halt = func() { select {} }

// PanicWithCode logs the panic code at Error level through the given
// logger (which may be nil) and then calls Halt, matching the runtime's
// documented "spin forever" default. With the default Halt it never
// returns; with a replaced Halt it returns once Halt does.
func PanicWithCode(l *Logger, code PanicCode, context string) {
	l.Errorf("panic %d (%s): %s", code, code, context)
	Halt()
}
