package sim

import (
	"log"
	"reflect"
)

// LogHookBase provides the common logic of hooks that write into a logger.
type LogHookBase struct {
	*log.Logger
}

// EventLogger is a hook that prints the information of events as the engine
// triggers them.
type EventLogger struct {
	LogHookBase
}

// NewEventLogger creates an EventLogger that writes into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger

	return h
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	comp, ok := evt.Handler().(Component)
	if ok {
		h.Printf("%.10f, %s -> %s",
			evt.Time(), reflect.TypeOf(evt), comp.Name())
	} else {
		h.Printf("%.10f, %s", evt.Time(), reflect.TypeOf(evt))
	}
}

// PortMsgLogger is a hook that logs the messages that go across a port.
type PortMsgLogger struct {
	LogHookBase
	timeTeller TimeTeller
}

// NewPortMsgLogger creates a PortMsgLogger that writes into the logger.
func NewPortMsgLogger(
	logger *log.Logger,
	timeTeller TimeTeller,
) *PortMsgLogger {
	h := new(PortMsgLogger)
	h.Logger = logger
	h.timeTeller = timeTeller

	return h
}

// Func writes the message information into the logger.
func (h *PortMsgLogger) Func(ctx HookCtx) {
	msg, ok := ctx.Item.(Msg)
	if !ok {
		return
	}

	if ctx.Pos != HookPosPortMsgSend && ctx.Pos != HookPosPortMsgRecvd {
		return
	}

	h.Printf("%.10f,%s,%s,%s,%s,%s",
		h.timeTeller.CurrentTime(),
		ctx.Pos.Name,
		reflect.TypeOf(msg),
		msg.Meta().ID,
		msg.Meta().Src,
		msg.Meta().Dst)
}
