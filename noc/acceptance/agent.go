// Package acceptance provides the traffic agents and checks used to verify
// credit-based links end to end.
package acceptance

import (
	"log"

	"github.com/sarchlab/vcnet/noc/flowcontrol"
	"github.com/sarchlab/vcnet/noc/messaging"
	"github.com/sarchlab/vcnet/sim"
)

// Agent sits on one side of a link. It injects flits when it holds credits
// for the VC, consumes arriving flits right away, and returns the credit for
// each freed slot.
type Agent struct {
	*sim.TickingComponent

	test *Test

	AgentPort sim.Port
	tracker   *flowcontrol.CreditTracker
	inBuf     *flowcontrol.InputBuffer
	relay     *flowcontrol.Relay

	spin       bool
	peerNodeID int

	FlitsToSend   []*messaging.Flit
	creditsToSend []*messaging.Credit

	sendBytes uint64
	recvBytes uint64
}

// NumVC returns the number of virtual channels the agent drives.
func (a *Agent) NumVC() int {
	return a.tracker.NumVC()
}

// Tick tries to send queued credits and flits and to consume arrivals.
func (a *Agent) Tick() bool {
	madeProgress := false

	madeProgress = a.sendCredit() || madeProgress
	madeProgress = a.sendFlit() || madeProgress
	madeProgress = a.recv() || madeProgress

	return madeProgress
}

func (a *Agent) sendCredit() bool {
	if len(a.creditsToSend) == 0 {
		return false
	}

	c := a.creditsToSend[0]

	err := a.AgentPort.Send(c)
	if err != nil {
		return false
	}

	a.creditsToSend = a.creditsToSend[1:]

	return true
}

func (a *Agent) sendFlit() bool {
	if len(a.FlitsToSend) == 0 {
		return false
	}

	f := a.FlitsToSend[0]
	if !a.tracker.CanSend(f.VC) {
		return false
	}

	f.SendTime = a.CurrentTime()

	err := a.AgentPort.Send(f)
	if err != nil {
		return false
	}

	a.tracker.Consume(f.VC)
	a.FlitsToSend = a.FlitsToSend[1:]
	a.sendBytes += uint64(f.Meta().TrafficBytes)

	return true
}

func (a *Agent) recv() bool {
	msg := a.AgentPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	now := a.CurrentTime()

	switch m := msg.(type) {
	case *messaging.Flit:
		a.inBuf.Push(m)
		a.consume(m.VC, now)
	case *messaging.Credit:
		a.applyCredit(m, now)
	default:
		log.Panicf("agent cannot handle message of type %T", msg)
	}

	return true
}

// consume drains the head flit of the VC, freeing the slot and queueing the
// credit that reports it back to the flit's source.
func (a *Agent) consume(vc int, now sim.VTimeInSec) {
	flit, credit := a.inBuf.Pop(vc, now)

	if a.spin {
		credit = messaging.MakeMoveCredit(vc, a.peerNodeID, now)
	}

	credit.Src = a.AgentPort.AsRemote()
	credit.Dst = flit.Src
	a.creditsToSend = append(a.creditsToSend, credit)

	a.recvBytes += uint64(flit.Meta().TrafficBytes)
	a.test.receiveFlit(flit, a.AgentPort)
}

func (a *Agent) applyCredit(c *messaging.Credit, now sim.VTimeInSec) {
	if !c.MoveCredit {
		a.tracker.Apply(c)
		return
	}

	out := a.relay.HandleMoveCredit(c, now)
	if !out.MoveCredit {
		a.tracker.Apply(out)
		return
	}

	// Not at the source yet. Keep the credit moving.
	out.Src = a.AgentPort.AsRemote()
	out.Dst = c.Src
	a.creditsToSend = append(a.creditsToSend, out)
}

// AgentBuilder can build agents.
type AgentBuilder struct {
	engine     sim.Engine
	freq       sim.Freq
	test       *Test
	numVC      int
	bufDepth   int
	spin       bool
	nodeID     int
	peerNodeID int
}

// MakeAgentBuilder creates an AgentBuilder with default parameters.
func MakeAgentBuilder() AgentBuilder {
	return AgentBuilder{
		freq:     1 * sim.GHz,
		numVC:    4,
		bufDepth: 5,
	}
}

// WithEngine sets the engine that drives the agent.
func (b AgentBuilder) WithEngine(engine sim.Engine) AgentBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the agent.
func (b AgentBuilder) WithFreq(freq sim.Freq) AgentBuilder {
	b.freq = freq
	return b
}

// WithTest sets the test that records the traffic of the agent.
func (b AgentBuilder) WithTest(t *Test) AgentBuilder {
	b.test = t
	return b
}

// WithNumVC sets the number of virtual channels on the agent's link.
func (b AgentBuilder) WithNumVC(n int) AgentBuilder {
	b.numVC = n
	return b
}

// WithBufDepth sets the per-VC buffer depth on both sides of the link.
func (b AgentBuilder) WithBufDepth(d int) AgentBuilder {
	b.bufDepth = d
	return b
}

// WithSpin makes the agent return credits as move credits. The node IDs
// identify this agent and its link peer for source attribution.
func (b AgentBuilder) WithSpin(nodeID, peerNodeID int) AgentBuilder {
	b.spin = true
	b.nodeID = nodeID
	b.peerNodeID = peerNodeID

	return b
}

// Build creates an agent.
func (b AgentBuilder) Build(name string) *Agent {
	a := &Agent{
		test:       b.test,
		spin:       b.spin,
		peerNodeID: b.peerNodeID,
	}
	a.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, a)

	a.AgentPort = sim.NewPort(a, 4, 4, sim.BuildName(name, "Port"))
	a.AddPort("Port", a.AgentPort)

	a.tracker = flowcontrol.MakeTrackerBuilder().
		WithNumVC(b.numVC).
		WithBufDepth(b.bufDepth).
		Build(sim.BuildName(name, "CreditTracker"))
	a.inBuf = flowcontrol.MakeInputBufferBuilder().
		WithNumVC(b.numVC).
		WithDepth(b.bufDepth).
		Build(sim.BuildName(name, "InputBuffer"))
	a.relay = flowcontrol.NewRelay(b.nodeID)

	return a
}
