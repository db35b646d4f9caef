// Package creditchannel provides a link that connects two ports, carrying
// data flits in one lane and credits in the other, each with a modeled
// latency.
package creditchannel

import (
	"log"

	"github.com/sarchlab/vcnet/noc/messaging"
	"github.com/sarchlab/vcnet/pipelining"
	"github.com/sarchlab/vcnet/sim"
)

// HookPosChannelDeliver marks the channel delivering a message to the
// destination port.
var HookPosChannelDeliver = &sim.HookPos{Name: "Channel Deliver"}

// A channelEnd is the infrastructure for the messages that flow out of one
// of the two ports.
type channelEnd struct {
	port sim.Port

	flitPipeline   pipelining.Pipeline
	creditPipeline pipelining.Pipeline

	// Messages that completed their wire delay and wait for the
	// destination port to have space.
	flitBuf   sim.Buffer
	creditBuf sim.Buffer
}

// Comp is a connection between two ports that models credit-based link
// transport. Within each lane, delivery is fifo, so credits for a VC are
// applied in the order they were generated and move credits keep their
// source attribution.
type Comp struct {
	*sim.TickingComponent

	ends []*channelEnd

	flitLatency   int
	creditLatency int
	postBufSize   int
}

// PlugIn connects a port to the channel. A channel accepts exactly two
// ports.
func (c *Comp) PlugIn(port sim.Port, _ int) {
	c.Lock()
	defer c.Unlock()

	if len(c.ends) == 2 {
		log.Panic("a credit channel can only connect two ports")
	}

	index := len(c.ends)
	end := &channelEnd{port: port}

	end.flitBuf = sim.NewBuffer(
		sim.BuildNameWithIndex(c.Name(), "FlitBuf", index),
		c.postBufSize)
	end.creditBuf = sim.NewBuffer(
		sim.BuildNameWithIndex(c.Name(), "CreditBuf", index),
		c.postBufSize)

	end.flitPipeline = pipelining.MakeBuilder().
		WithNumStage(c.flitLatency).
		WithCyclePerStage(1).
		WithPostPipelineBuffer(end.flitBuf).
		Build(sim.BuildNameWithIndex(c.Name(), "FlitPipeline", index))
	end.creditPipeline = pipelining.MakeBuilder().
		WithNumStage(c.creditLatency).
		WithCyclePerStage(1).
		WithPostPipelineBuffer(end.creditBuf).
		Build(sim.BuildNameWithIndex(c.Name(), "CreditPipeline", index))

	c.ends = append(c.ends, end)

	port.SetConnection(c)
}

// Unplug detaches a port from the channel.
func (c *Comp) Unplug(_ sim.Port) {
	panic("not implemented")
}

// NotifyAvailable is called by a port to notify that the channel can
// deliver to the port again.
func (c *Comp) NotifyAvailable(p sim.Port) {
	for _, end := range c.ends {
		if end.port == p {
			continue
		}

		end.port.NotifyAvailable()
	}

	c.TickNow()
}

// NotifySend is called by a port to notify that a message is waiting to be
// sent.
func (c *Comp) NotifySend() {
	c.TickNow()
}

// Tick updates the state of the channel and delivers messages.
func (c *Comp) Tick() bool {
	c.Lock()
	defer c.Unlock()

	c.bothEndsMustBePlugged()

	madeProgress := false
	madeProgress = c.tickEnd(c.ends[0], c.ends[1]) || madeProgress
	madeProgress = c.tickEnd(c.ends[1], c.ends[0]) || madeProgress

	return madeProgress
}

func (c *Comp) bothEndsMustBePlugged() {
	if len(c.ends) != 2 {
		log.Panic("the channel must connect two ports before ticking")
	}
}

func (c *Comp) tickEnd(from, to *channelEnd) bool {
	madeProgress := false

	// Credits go first so that backpressure information is never starved
	// by data traffic.
	madeProgress = c.deliver(from.creditBuf, to.port) || madeProgress
	madeProgress = c.deliver(from.flitBuf, to.port) || madeProgress
	madeProgress = from.creditPipeline.Tick() || madeProgress
	madeProgress = from.flitPipeline.Tick() || madeProgress
	madeProgress = c.accept(from) || madeProgress

	return madeProgress
}

func (c *Comp) deliver(buf sim.Buffer, to sim.Port) bool {
	madeProgress := false

	for {
		item := buf.Peek()
		if item == nil {
			break
		}

		msg := item.(sim.Msg)
		err := to.Deliver(msg)
		if err != nil {
			break
		}

		buf.Pop()
		madeProgress = true

		if c.NumHooks() > 0 {
			c.InvokeHook(sim.HookCtx{
				Domain: c,
				Pos:    HookPosChannelDeliver,
				Item:   msg,
			})
		}
	}

	return madeProgress
}

func (c *Comp) accept(end *channelEnd) bool {
	madeProgress := false

	for {
		msg := end.port.PeekOutgoing()
		if msg == nil {
			break
		}

		pipeline := end.flitPipeline
		if kindOf(msg) == messaging.KindCredit {
			pipeline = end.creditPipeline
		}

		if !pipeline.CanAccept() {
			break
		}

		pipeline.Accept(msg)
		end.port.RetrieveOutgoing()
		madeProgress = true
	}

	return madeProgress
}

// kindOf reads the lane tag of a link message. The channel does not
// interpret any of the flow-control fields.
func kindOf(msg sim.Msg) messaging.Kind {
	switch m := msg.(type) {
	case *messaging.Flit:
		return m.Kind
	case *messaging.Credit:
		return m.Kind
	default:
		panic("message is not a link message")
	}
}
