package acceptance

import (
	"log"
	"math/rand"

	"github.com/sarchlab/vcnet/noc/messaging"
	"github.com/sarchlab/vcnet/sim"
)

type trafficMsg struct {
	sim.MsgMeta
}

func (m *trafficMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

func (m *trafficMsg) Clone() sim.Msg {
	cloneMsg := *m
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

type flowKey struct {
	src, dst sim.RemotePort
	vc       int
}

// Test is a test case. It generates traffic and checks that every flit is
// delivered once, at its destination, in order within its VC.
type Test struct {
	agents        []*Agent
	flits         []*messaging.Flit
	receivedFlits []*messaging.Flit
	receivedTable map[string]bool
	nextSeqID     map[flowKey]int
	sendSeqID     map[flowKey]int
}

// NewTest creates a new test.
func NewTest() *Test {
	t := &Test{}
	t.receivedTable = make(map[string]bool)
	t.nextSeqID = make(map[flowKey]int)
	t.sendSeqID = make(map[flowKey]int)

	return t
}

// RegisterAgent adds an agent to the Test.
func (t *Test) RegisterAgent(agent *Agent) {
	t.agents = append(t.agents, agent)
}

// GenerateTraffic generates n single-flit messages, each from a random
// agent to another random agent, on a random VC.
func (t *Test) GenerateTraffic(n uint64) {
	for i := uint64(0); i < n; i++ {
		srcAgentID := rand.Intn(len(t.agents))
		srcAgent := t.agents[srcAgentID]

		dstAgentID := rand.Intn(len(t.agents))
		for dstAgentID == srcAgentID {
			dstAgentID = rand.Intn(len(t.agents))
		}
		dstAgent := t.agents[dstAgentID]

		vc := rand.Intn(dstAgent.NumVC())

		msg := &trafficMsg{}
		msg.ID = sim.GetIDGenerator().Generate()
		msg.TrafficBytes = rand.Intn(4096)

		key := flowKey{
			src: srcAgent.AgentPort.AsRemote(),
			dst: dstAgent.AgentPort.AsRemote(),
			vc:  vc,
		}

		flit := messaging.FlitBuilder{}.
			WithSrc(key.src).
			WithDst(key.dst).
			WithVC(vc).
			WithSeqID(t.sendSeqID[key]).
			WithNumFlitInMsg(1).
			WithMsg(msg).
			Build()
		t.sendSeqID[key]++

		srcAgent.FlitsToSend = append(srcAgent.FlitsToSend, flit)
		t.flits = append(t.flits, flit)
	}
}

// receiveFlit marks that a flit is received.
func (t *Test) receiveFlit(flit *messaging.Flit, recvPort sim.Port) {
	t.flitMustBeReceivedAtItsDestination(flit, recvPort)
	t.flitMustNotBeReceivedBefore(flit)
	t.flitMustBeInOrder(flit)

	t.receivedFlits = append(t.receivedFlits, flit)
}

func (t *Test) flitMustBeReceivedAtItsDestination(
	flit *messaging.Flit,
	recvPort sim.Port,
) {
	if flit.Dst != recvPort.AsRemote() {
		panic("flit delivered to a wrong destination")
	}
}

func (t *Test) flitMustNotBeReceivedBefore(flit *messaging.Flit) {
	if _, found := t.receivedTable[flit.ID]; found {
		panic("flit is double delivered")
	}

	t.receivedTable[flit.ID] = true
}

func (t *Test) flitMustBeInOrder(flit *messaging.Flit) {
	key := flowKey{src: flit.Src, dst: flit.Dst, vc: flit.VC}

	if flit.SeqID != t.nextSeqID[key] {
		log.Panicf("flit %s out of order on VC %d: seq %d, expected %d",
			flit.ID, flit.VC, flit.SeqID, t.nextSeqID[key])
	}

	t.nextSeqID[key]++
}

// MustHaveReceivedAllFlits asserts that every flit sent is received.
func (t *Test) MustHaveReceivedAllFlits() {
	if len(t.flits) == len(t.receivedFlits) {
		return
	}

	for _, sent := range t.flits {
		if _, found := t.receivedTable[sent.ID]; !found {
			log.Printf("flit %s expected, but not received\n", sent.ID)
		}
	}

	panic("some flits are dropped")
}

// ReportBandwidthAchieved dumps the bandwidth observed by each agent.
func (t *Test) ReportBandwidthAchieved(now sim.VTimeInSec) {
	for _, a := range t.agents {
		log.Printf(
			"agent %s, send bandwidth %.2f GB/s, recv bandwidth %.2f GB/s",
			a.Name(),
			float64(a.sendBytes)/float64(now)/1e9,
			float64(a.recvBytes)/float64(now)/1e9)
	}
}
