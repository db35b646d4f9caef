package flowcontrol

import (
	"github.com/sarchlab/vcnet/noc/messaging"
	"github.com/sarchlab/vcnet/sim"
)

// An InputBuffer is the downstream side of a link: one fifo per virtual
// channel. Popping a flit frees a slot and produces the credit that must be
// sent back upstream.
type InputBuffer struct {
	name   string
	vcBufs []sim.Buffer
}

// Name returns the name of the input buffer.
func (b *InputBuffer) Name() string {
	return b.name
}

// NumVC returns the number of virtual channels.
func (b *InputBuffer) NumVC() int {
	return len(b.vcBufs)
}

// CanPush tells if the VC has a slot left.
func (b *InputBuffer) CanPush(vc int) bool {
	return b.vcBufs[vc].CanPush()
}

// Push stores a flit into the buffer of the VC it travels on. Pushing into
// a full VC panics, as it means the upstream sender violated the credit
// protocol.
func (b *InputBuffer) Push(flit *messaging.Flit) {
	b.vcBufs[flit.VC].Push(flit)
}

// Peek returns the flit at the head of the VC without removing it.
func (b *InputBuffer) Peek(vc int) *messaging.Flit {
	item := b.vcBufs[vc].Peek()
	if item == nil {
		return nil
	}

	return item.(*messaging.Flit)
}

// Size returns the number of flits buffered in the VC.
func (b *InputBuffer) Size(vc int) int {
	return b.vcBufs[vc].Size()
}

// Pop removes the flit at the head of the VC. The returned credit reports
// the freed slot and must be handed to the reverse channel at the cycle the
// slot frees.
func (b *InputBuffer) Pop(
	vc int,
	now sim.VTimeInSec,
) (*messaging.Flit, *messaging.Credit) {
	item := b.vcBufs[vc].Pop()
	if item == nil {
		return nil, nil
	}

	credit := messaging.MakeDirectCredit(vc, true, now)

	return item.(*messaging.Flit), credit
}

// Buf exposes the underlying buffer of a VC, for observation.
func (b *InputBuffer) Buf(vc int) sim.Buffer {
	return b.vcBufs[vc]
}

// InputBufferBuilder can build input buffers.
type InputBufferBuilder struct {
	numVC int
	depth int
}

// MakeInputBufferBuilder creates an InputBufferBuilder with default
// parameters.
func MakeInputBufferBuilder() InputBufferBuilder {
	return InputBufferBuilder{
		numVC: 4,
		depth: 5,
	}
}

// WithNumVC sets the number of virtual channels.
func (b InputBufferBuilder) WithNumVC(n int) InputBufferBuilder {
	b.numVC = n
	return b
}

// WithDepth sets the number of slots per VC.
func (b InputBufferBuilder) WithDepth(d int) InputBufferBuilder {
	b.depth = d
	return b
}

// Build creates an InputBuffer.
func (b InputBufferBuilder) Build(name string) *InputBuffer {
	sim.NameMustBeValid(name)

	ib := &InputBuffer{
		name:   name,
		vcBufs: make([]sim.Buffer, b.numVC),
	}

	for vc := range ib.vcBufs {
		ib.vcBufs[vc] = sim.NewBuffer(
			sim.BuildNameWithIndex(name, "VCBuf", vc), b.depth)
	}

	return ib
}
