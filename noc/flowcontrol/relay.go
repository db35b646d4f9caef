package flowcontrol

import (
	"log"

	"github.com/sarchlab/vcnet/noc/messaging"
	"github.com/sarchlab/vcnet/sim"
)

// A Relay implements the spin scheme: instead of sending a credit straight
// back to the original sender, the credit hops through intermediate routers
// as a move credit that preserves the identity of the router that freed the
// slot.
type Relay struct {
	nodeID int
}

// NewRelay creates a Relay for the router with the given ID.
func NewRelay(nodeID int) *Relay {
	return &Relay{nodeID: nodeID}
}

// NodeID returns the ID of the router the relay runs on.
func (r *Relay) NodeID() int {
	return r.nodeID
}

// HandleMoveCredit consumes a delivered move credit and produces the
// follow-up credit to emit. When the move credit arrives back at its
// originating router, the relay converts it into a direct credit that
// asserts the freed slot. At any other router, it re-emits a move credit
// that keeps the source attribution for the next hop.
func (r *Relay) HandleMoveCredit(
	c *messaging.Credit,
	now sim.VTimeInSec,
) *messaging.Credit {
	if !c.MoveCredit {
		log.Panic("relay can only handle move credits")
	}

	if c.SourceID == r.nodeID {
		return messaging.MakeDirectCredit(c.VC, true, now)
	}

	return messaging.MakeMoveCredit(c.VC, c.SourceID, now)
}
