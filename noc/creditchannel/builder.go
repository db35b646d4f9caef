package creditchannel

import (
	"github.com/sarchlab/vcnet/sim"
)

// Builder can build credit channels.
type Builder struct {
	engine        sim.Engine
	freq          sim.Freq
	flitLatency   int
	creditLatency int
	postBufSize   int
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:          1 * sim.GHz,
		flitLatency:   1,
		creditLatency: 1,
		postBufSize:   1,
	}
}

// WithEngine sets the engine that drives the channel.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the channel.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithFlitLatency sets the number of cycles a flit spends on the wire.
func (b Builder) WithFlitLatency(n int) Builder {
	b.flitLatency = n
	return b
}

// WithCreditLatency sets the number of cycles a credit spends on the wire.
func (b Builder) WithCreditLatency(n int) Builder {
	b.creditLatency = n
	return b
}

// WithPostBufSize sets the number of messages that can wait at the
// receiving side of each lane.
func (b Builder) WithPostBufSize(n int) Builder {
	b.postBufSize = n
	return b
}

// Build creates a new channel.
func (b Builder) Build(name string) *Comp {
	sim.NameMustBeValid(name)

	c := &Comp{
		flitLatency:   b.flitLatency,
		creditLatency: b.creditLatency,
		postBufSize:   b.postBufSize,
	}
	c.TickingComponent = sim.NewSecondaryTickingComponent(
		name, b.engine, b.freq, c)

	return c
}
