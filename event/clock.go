package event

// Clock is a node in the runtime's clock dependency graph: clocks are
// derived from other clocks (crystal → PLL → peripheral divider) and
// each one names the power domain it requires to run
// (io_cpu_clock_implementation_t's vtable, replaced by a Go interface —
// spec §9 REDESIGN FLAGS).
type Clock interface {
	CurrentFrequency() float64
	ExpectedFrequency() float64
	Input() Clock
	PowerDomain() PowerDomain
	Start(*Runtime) bool
	Stop(*Runtime)
	// IterateOutputs calls cb with each clock directly derived from this
	// one, stopping early if cb returns false, and returns false if any
	// call did (io_cpu_clock_iterate_outputs).
	IterateOutputs(cb func(Clock) bool) bool
}

// SourceClock is a root clock with a fixed frequency and no input, e.g.
// a crystal oscillator (io_cpu_clock_source_implementation).
type SourceClock struct {
	Frequency float64
	Domain    PowerDomain
	running   bool
	outputs   []Clock
}

// NewSourceClock builds a stopped root clock on domain (AlwaysOn if nil);
// Start turns the domain on and sets it running.
func NewSourceClock(frequency float64, domain PowerDomain) *SourceClock {
	if domain == nil {
		domain = AlwaysOn
	}
	return &SourceClock{Frequency: frequency, Domain: domain}
}

func (c *SourceClock) CurrentFrequency() float64 {
	if !c.running {
		return 0
	}
	return c.Frequency
}
func (c *SourceClock) ExpectedFrequency() float64 { return c.Frequency }
func (c *SourceClock) Input() Clock                { return nil }
func (c *SourceClock) PowerDomain() PowerDomain    { return c.Domain }

func (c *SourceClock) Start(r *Runtime) bool {
	if !c.running {
		c.Domain.TurnOn(r)
		c.running = true
	}
	return true
}

func (c *SourceClock) Stop(r *Runtime) {
	if c.running {
		c.Domain.TurnOff(r)
		c.running = false
	}
}

func (c *SourceClock) IterateOutputs(cb func(Clock) bool) bool {
	for _, o := range c.outputs {
		if !cb(o) {
			return false
		}
	}
	return true
}

// addOutput registers a derived clock, used by the DependentClock
// constructor to thread the graph in both directions.
func (c *SourceClock) addOutput(o Clock) { c.outputs = append(c.outputs, o) }

// DependentClock derives its frequency from an upstream clock by a
// fixed divisor, e.g. a peripheral bus divider (io_dependent_clock_implementation).
// Starting it starts its input first; stopping it only stops the input
// if it has no other outputs still running (io_cpu_clock_always_on_stop's
// shape, generalised).
type DependentClock struct {
	input   Clock
	divisor float64
	running bool
	outputs []Clock
}

// NewDependentClock derives a clock from input at frequency
// input.ExpectedFrequency()/divisor, and records itself as one of
// input's outputs if input supports it.
func NewDependentClock(input Clock, divisor float64) *DependentClock {
	d := &DependentClock{input: input, divisor: divisor}
	if s, ok := input.(*SourceClock); ok {
		s.addOutput(d)
	} else if p, ok := input.(*DependentClock); ok {
		p.addOutput(d)
	}
	return d
}

func (c *DependentClock) CurrentFrequency() float64 {
	if !c.running || c.input == nil {
		return 0
	}
	return c.input.CurrentFrequency() / c.divisor
}

func (c *DependentClock) ExpectedFrequency() float64 {
	if c.input == nil {
		return 0
	}
	return c.input.ExpectedFrequency() / c.divisor
}

func (c *DependentClock) Input() Clock { return c.input }

func (c *DependentClock) PowerDomain() PowerDomain {
	if c.input == nil {
		return AlwaysOn
	}
	return c.input.PowerDomain()
}

func (c *DependentClock) Start(r *Runtime) bool {
	if c.running {
		return true
	}
	if c.input != nil && !c.input.Start(r) {
		return false
	}
	c.running = true
	return true
}

func (c *DependentClock) Stop(r *Runtime) {
	if !c.running {
		return
	}
	c.running = false
	if c.input == nil {
		return
	}
	inUse := false
	c.input.IterateOutputs(func(o Clock) bool {
		if o.CurrentFrequency() != 0 {
			inUse = true
		}
		return !inUse
	})
	if !inUse {
		c.input.Stop(r)
	}
}

func (c *DependentClock) IterateOutputs(cb func(Clock) bool) bool {
	for _, o := range c.outputs {
		if !cb(o) {
			return false
		}
	}
	return true
}

func (c *DependentClock) addOutput(o Clock) { c.outputs = append(c.outputs, o) }
