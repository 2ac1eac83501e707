package timestep

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind names an event emitted by a Clock.
type Kind string

const (
	KindStart     Kind = "start"
	KindStop      Kind = "stop"
	KindFixedStep Kind = "fixed-step"
	KindFrameStep Kind = "frame-step"
	KindRender    Kind = "render"
	KindOverrun   Kind = "overrun"
)

// Kinds lists every event kind in declaration order.
var Kinds = []Kind{KindStart, KindStop, KindFixedStep, KindFrameStep, KindRender, KindOverrun}

// ParseKind validates s as an event kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown event kind %q", s)
}

// StopReason tells an intentional stop apart from the overrun safety halt.
type StopReason string

const (
	StopRequested StopReason = "requested"
	StopOverrun   StopReason = "overrun"
)

// Event is one of StartEvent, StopEvent, FixedStepEvent, FrameStepEvent,
// RenderEvent or OverrunEvent.
type Event interface {
	Kind() Kind
}

type StartEvent struct{}

type StopEvent struct {
	Reason StopReason
}

// FixedStepEvent is a simulation update. Delta is always the configured
// fixed step.
type FixedStepEvent struct {
	Delta time.Duration
	// Step counts fixed steps since the clock was created, starting at 1.
	Step uint64
}

// FrameStepEvent is the variable-rate update preceding a render. Delta is
// the time actually accumulated since the previous frame, not the nominal
// render step.
type FrameStepEvent struct {
	Delta time.Duration
	Frame uint64
}

// RenderEvent always immediately follows the FrameStepEvent with the same
// Frame number.
type RenderEvent struct {
	Delta time.Duration
	Frame uint64
}

// OverrunEvent reports a frame longer than the configured maximum.
type OverrunEvent struct {
	Frame time.Duration
	Limit time.Duration
}

func (StartEvent) Kind() Kind     { return KindStart }
func (StopEvent) Kind() Kind      { return KindStop }
func (FixedStepEvent) Kind() Kind { return KindFixedStep }
func (FrameStepEvent) Kind() Kind { return KindFrameStep }
func (RenderEvent) Kind() Kind    { return KindRender }
func (OverrunEvent) Kind() Kind   { return KindOverrun }

// Delta returns the duration carried by ev, or zero for lifecycle events.
func Delta(ev Event) time.Duration {
	switch e := ev.(type) {
	case FixedStepEvent:
		return e.Delta
	case FrameStepEvent:
		return e.Delta
	case RenderEvent:
		return e.Delta
	case OverrunEvent:
		return e.Frame
	default:
		return 0
	}
}

// Payload is the flat JSON form of an event, used by traces and the
// websocket stream.
type Payload struct {
	Kind   Kind          `json:"kind"`
	Delta  time.Duration `json:"delta,omitempty"`
	Seq    uint64        `json:"seq,omitempty"`
	Reason StopReason    `json:"reason,omitempty"`
	Limit  time.Duration `json:"limit,omitempty"`
}

// ToPayload flattens ev.
func ToPayload(ev Event) Payload {
	p := Payload{Kind: ev.Kind(), Delta: Delta(ev)}
	switch e := ev.(type) {
	case StopEvent:
		p.Reason = e.Reason
	case FixedStepEvent:
		p.Seq = e.Step
	case FrameStepEvent:
		p.Seq = e.Frame
	case RenderEvent:
		p.Seq = e.Frame
	case OverrunEvent:
		p.Limit = e.Limit
	}
	return p
}

// Event rebuilds the typed event from a payload.
func (p Payload) Event() (Event, error) {
	switch p.Kind {
	case KindStart:
		return StartEvent{}, nil
	case KindStop:
		return StopEvent{Reason: p.Reason}, nil
	case KindFixedStep:
		return FixedStepEvent{Delta: p.Delta, Step: p.Seq}, nil
	case KindFrameStep:
		return FrameStepEvent{Delta: p.Delta, Frame: p.Seq}, nil
	case KindRender:
		return RenderEvent{Delta: p.Delta, Frame: p.Seq}, nil
	case KindOverrun:
		return OverrunEvent{Frame: p.Delta, Limit: p.Limit}, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", p.Kind)
	}
}

// MarshalEvent encodes ev as its Payload.
func MarshalEvent(ev Event) ([]byte, error) {
	return json.Marshal(ToPayload(ev))
}
