package messaging

import (
	"github.com/sarchlab/vcnet/sim"
)

// Kind tags the payload class of a message traveling on a link. The channel
// only reads the kind and the send time to pick the lane to transport a
// message on. It never interprets the flow-control fields.
type Kind int

// The kinds of messages that can travel on a link.
const (
	KindFlit Kind = iota
	KindCredit
)

// A Credit reports one unit of backpressure information for a virtual
// channel. It flows from a downstream input buffer back to the upstream
// sender, telling it that a buffer slot is usable again.
//
// A Credit is immutable after construction. Its ID stays the zero value, as
// credits are not individually tracked like data flits are.
type Credit struct {
	sim.MsgMeta

	Kind         Kind
	VC           int
	IsFreeSignal bool

	// MoveCredit discriminates the two construction modes. A move credit
	// relays buffer availability through an intermediate router toward the
	// true upstream consumer instead of asserting freedom directly.
	MoveCredit bool

	// SourceID is only meaningful when MoveCredit is true. It identifies
	// the router that is the ultimate origin of the freed slot, so that a
	// relaying router can forward the credit instead of claiming it.
	SourceID int

	SendTime sim.VTimeInSec
}

// Meta returns the meta data associated with the Credit.
func (c *Credit) Meta() *sim.MsgMeta {
	return &c.MsgMeta
}

// Clone returns a copy of the Credit. The ID stays empty.
func (c *Credit) Clone() sim.Msg {
	cloneMsg := *c
	return &cloneMsg
}

// MakeDirectCredit creates an ordinary credit for the given virtual channel.
// The isFreeSignal argument tells whether a buffer slot in the VC has become
// free. Validity of the VC index is the caller's responsibility.
func MakeDirectCredit(
	vc int,
	isFreeSignal bool,
	now sim.VTimeInSec,
) *Credit {
	c := &Credit{}
	c.Kind = KindCredit
	c.VC = vc
	c.IsFreeSignal = isFreeSignal
	c.SendTime = now

	return c
}

// MakeMoveCredit creates a credit that relays buffer availability toward the
// upstream router identified by sourceID. The free signal is always
// suppressed on move credits, as freedom is implied by the relay act itself
// rather than asserted directly.
func MakeMoveCredit(
	vc int,
	sourceID int,
	now sim.VTimeInSec,
) *Credit {
	c := &Credit{}
	c.Kind = KindCredit
	c.VC = vc
	c.MoveCredit = true
	c.SourceID = sourceID
	c.SendTime = now

	return c
}
