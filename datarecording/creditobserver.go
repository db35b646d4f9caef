package datarecording

import (
	"github.com/sarchlab/vcnet/noc/messaging"
	"github.com/sarchlab/vcnet/sim"
)

// CreditEvent is one credit delivered by a link.
type CreditEvent struct {
	Time         float64
	Channel      string
	Src          string
	Dst          string
	VC           int
	IsFreeSignal bool
	MoveCredit   bool
	SourceID     int
}

// FlitEvent is one flit delivered by a link.
type FlitEvent struct {
	Time    float64
	Channel string
	Src     string
	Dst     string
	VC      int
	SeqID   int
}

// A CreditObserver is a hook that records the credits and flits a channel
// delivers, so that flow-control behavior can be inspected after a run.
type CreditObserver struct {
	recorder   DataRecorder
	timeTeller sim.TimeTeller
}

// NewCreditObserver creates a CreditObserver that writes into the recorder.
func NewCreditObserver(
	recorder DataRecorder,
	timeTeller sim.TimeTeller,
) *CreditObserver {
	recorder.CreateTable("credit_traffic", CreditEvent{})
	recorder.CreateTable("flit_traffic", FlitEvent{})

	return &CreditObserver{
		recorder:   recorder,
		timeTeller: timeTeller,
	}
}

// Func records the delivered message if it is a credit or a flit.
func (o *CreditObserver) Func(ctx sim.HookCtx) {
	now := float64(o.timeTeller.CurrentTime())

	channel := ""
	if named, ok := ctx.Domain.(sim.Named); ok {
		channel = named.Name()
	}

	switch m := ctx.Item.(type) {
	case *messaging.Credit:
		o.recorder.InsertData("credit_traffic", CreditEvent{
			Time:         now,
			Channel:      channel,
			Src:          string(m.Src),
			Dst:          string(m.Dst),
			VC:           m.VC,
			IsFreeSignal: m.IsFreeSignal,
			MoveCredit:   m.MoveCredit,
			SourceID:     m.SourceID,
		})
	case *messaging.Flit:
		o.recorder.InsertData("flit_traffic", FlitEvent{
			Time:    now,
			Channel: channel,
			Src:     string(m.Src),
			Dst:     string(m.Dst),
			VC:      m.VC,
			SeqID:   m.SeqID,
		})
	}
}
