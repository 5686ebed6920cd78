package game

import (
	"fmt"

	"github.com/google/uuid"
)

// EventKind enumerates what the core reports to the outside world.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventBurstStarted
	EventShotFired
	EventBurstEnded
	EventBurstAborted
	EventAgentHit
	EventAgentDied
	EventTargetHit
	EventProjectileExpired
	EventProjectileHitWorld
	EventMissingDependency
	EventInvalidDestination
)

func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state_changed"
	case EventBurstStarted:
		return "burst_started"
	case EventShotFired:
		return "shot_fired"
	case EventBurstEnded:
		return "burst_ended"
	case EventBurstAborted:
		return "burst_aborted"
	case EventAgentHit:
		return "agent_hit"
	case EventAgentDied:
		return "agent_died"
	case EventTargetHit:
		return "target_hit"
	case EventProjectileExpired:
		return "projectile_expired"
	case EventProjectileHitWorld:
		return "projectile_hit_world"
	case EventMissingDependency:
		return "missing_dependency"
	case EventInvalidDestination:
		return "invalid_destination"
	default:
		return "unknown"
	}
}

// Category groups event kinds the way SimLog files them.
func (k EventKind) Category() string {
	switch k {
	case EventStateChanged:
		return "state"
	case EventBurstStarted, EventShotFired, EventBurstEnded, EventBurstAborted:
		return "weapon"
	case EventAgentHit, EventAgentDied:
		return "health"
	case EventTargetHit, EventProjectileExpired, EventProjectileHitWorld:
		return "projectile"
	default:
		return "fault"
	}
}

// Event is a side effect the core asks observers to act on.
type Event struct {
	Kind    EventKind
	AgentID uuid.UUID
	Agent   string // label, "--" for world events
	From    State
	To      State
	Pos     Vec3
	Value   float64
	Detail  string
}

func (e Event) String() string {
	switch e.Kind {
	case EventStateChanged:
		return fmt.Sprintf("%s %s → %s", e.Agent, e.From, e.To)
	default:
		if e.Detail != "" {
			return fmt.Sprintf("%s %s %s", e.Agent, e.Kind, e.Detail)
		}
		return fmt.Sprintf("%s %s %.2f", e.Agent, e.Kind, e.Value)
	}
}

// EventSink receives events. Implementations must not call back into the
// emitting agent.
type EventSink interface {
	Emit(e Event)
}

// EventFunc adapts a function to EventSink.
type EventFunc func(e Event)

func (f EventFunc) Emit(e Event) { f(e) }

// EventBuffer records events in order.
type EventBuffer struct {
	Events []Event
}

func (b *EventBuffer) Emit(e Event) { b.Events = append(b.Events, e) }

// Count returns how many recorded events have kind k.
func (b *EventBuffer) Count(k EventKind) int {
	n := 0
	for _, e := range b.Events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// OfKind returns the recorded events of kind k.
func (b *EventBuffer) OfKind(k EventKind) []Event {
	var out []Event
	for _, e := range b.Events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops everything recorded so far.
func (b *EventBuffer) Reset() { b.Events = b.Events[:0] }

// multiSink fans an event out to several sinks.
type multiSink []EventSink

func (m multiSink) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

type discardSink struct{}

func (discardSink) Emit(Event) {}
