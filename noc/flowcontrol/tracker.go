// Package flowcontrol maintains the per-VC credit state on the two sides of
// a link. The upstream side counts the usable buffer slots of its peer. The
// downstream side buffers arriving flits and returns a credit whenever a
// slot frees.
package flowcontrol

import (
	"log"

	"github.com/sarchlab/vcnet/noc/messaging"
	"github.com/sarchlab/vcnet/sim"
)

// A CreditTracker counts, for each virtual channel, how many buffer slots
// are still usable at the downstream peer. A sender must hold a credit for
// a VC before it can inject a flit into that VC.
type CreditTracker struct {
	name    string
	depth   int
	credits []int
}

// Name returns the name of the tracker.
func (t *CreditTracker) Name() string {
	return t.name
}

// NumVC returns the number of virtual channels tracked.
func (t *CreditTracker) NumVC() int {
	return len(t.credits)
}

// Available returns the number of credits currently held for the VC.
func (t *CreditTracker) Available(vc int) int {
	return t.credits[vc]
}

// CanSend tells if the sender holds at least one credit for the VC.
func (t *CreditTracker) CanSend(vc int) bool {
	return t.credits[vc] > 0
}

// Consume takes one credit away from the VC when a flit is injected.
// Consuming below zero is a protocol violation.
func (t *CreditTracker) Consume(vc int) {
	if t.credits[vc] == 0 {
		log.Panicf("consuming a credit on VC %d with no credit left", vc)
	}

	t.credits[vc]--
}

// Apply consumes a delivered credit signal, restoring one usable slot for
// the VC it reports on. Move credits must be routed to a Relay instead.
// The link is lossless, so receiving more credits than the downstream
// buffer depth is a bug.
func (t *CreditTracker) Apply(c *messaging.Credit) {
	if c.MoveCredit {
		log.Panic("move credits must be handled by a relay")
	}

	if !c.IsFreeSignal {
		return
	}

	if t.credits[c.VC] == t.depth {
		log.Panicf("credit overflow on VC %d", c.VC)
	}

	t.credits[c.VC]++
}

// TrackerBuilder can build credit trackers.
type TrackerBuilder struct {
	numVC    int
	bufDepth int
}

// MakeTrackerBuilder creates a TrackerBuilder with default parameters.
func MakeTrackerBuilder() TrackerBuilder {
	return TrackerBuilder{
		numVC:    4,
		bufDepth: 5,
	}
}

// WithNumVC sets the number of virtual channels to track.
func (b TrackerBuilder) WithNumVC(n int) TrackerBuilder {
	b.numVC = n
	return b
}

// WithBufDepth sets the downstream buffer depth per VC, which is the number
// of credits each VC starts with.
func (b TrackerBuilder) WithBufDepth(d int) TrackerBuilder {
	b.bufDepth = d
	return b
}

// Build creates a CreditTracker with all the VCs holding a full set of
// credits.
func (b TrackerBuilder) Build(name string) *CreditTracker {
	sim.NameMustBeValid(name)

	t := &CreditTracker{
		name:    name,
		depth:   b.bufDepth,
		credits: make([]int, b.numVC),
	}

	for vc := range t.credits {
		t.credits[vc] = b.bufDepth
	}

	return t
}
