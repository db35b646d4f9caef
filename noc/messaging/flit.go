// Package messaging defines the messages that travel on a link: data flits
// and the credits that report buffer availability back to the sender.
package messaging

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/vcnet/sim"
)

// Flit is the smallest transferring unit on a network.
type Flit struct {
	sim.MsgMeta

	Kind         Kind
	VC           int
	SeqID        int
	NumFlitInMsg int
	Msg          sim.Msg
	SendTime     sim.VTimeInSec
}

// Meta returns the meta data associated with the Flit.
func (f *Flit) Meta() *sim.MsgMeta {
	return &f.MsgMeta
}

// Clone returns a cloned Flit with a different ID.
func (f *Flit) Clone() sim.Msg {
	cloneMsg := *f
	cloneMsg.ID = fmt.Sprintf("flit-%d-msg-%s-%s",
		cloneMsg.SeqID, cloneMsg.Msg.Meta().ID,
		sim.GetIDGenerator().Generate())

	return &cloneMsg
}

// FlitBuilder can build flits.
type FlitBuilder struct {
	src, dst            sim.RemotePort
	msg                 sim.Msg
	vc                  int
	seqID, numFlitInMsg int
	sendTime            sim.VTimeInSec
}

// WithSrc sets the src of the flit to build.
func (b FlitBuilder) WithSrc(src sim.RemotePort) FlitBuilder {
	b.src = src
	return b
}

// WithDst sets the dst of the flit to build.
func (b FlitBuilder) WithDst(dst sim.RemotePort) FlitBuilder {
	b.dst = dst
	return b
}

// WithVC sets the virtual channel that the flit travels on.
func (b FlitBuilder) WithVC(vc int) FlitBuilder {
	b.vc = vc
	return b
}

// WithSeqID sets the SeqID of the flit.
func (b FlitBuilder) WithSeqID(i int) FlitBuilder {
	b.seqID = i
	return b
}

// WithNumFlitInMsg sets the NumFlitInMsg of the flit to build.
func (b FlitBuilder) WithNumFlitInMsg(n int) FlitBuilder {
	b.numFlitInMsg = n
	return b
}

// WithMsg sets the msg of the flit to build.
func (b FlitBuilder) WithMsg(msg sim.Msg) FlitBuilder {
	b.msg = msg
	return b
}

// WithSendTime sets the time that the flit is sent.
func (b FlitBuilder) WithSendTime(t sim.VTimeInSec) FlitBuilder {
	b.sendTime = t
	return b
}

// Build creates a new flit.
func (b FlitBuilder) Build() *Flit {
	f := &Flit{}
	f.ID = fmt.Sprintf("flit-%d-msg-%s-%s",
		b.seqID, b.msg.Meta().ID,
		sim.GetIDGenerator().Generate())
	f.Src = b.src
	f.Dst = b.dst
	f.Kind = KindFlit
	f.VC = b.vc
	f.Msg = b.msg
	f.SeqID = b.seqID
	f.NumFlitInMsg = b.numFlitInMsg
	f.SendTime = b.sendTime

	msgValue := reflect.TypeOf(b.msg).Elem()
	f.TrafficClass = msgValue.String()

	return f
}
