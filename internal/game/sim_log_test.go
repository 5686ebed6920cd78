package game

import (
	"strings"
	"testing"
)

func TestSimLog_RecordFilesByCategory(t *testing.T) {
	sl := NewSimLog(false)
	sl.Record(3, "tactical", Event{Kind: EventStateChanged, Agent: "H0", From: StateChase, To: StateCombatStrafe})
	sl.Record(4, "tactical", Event{Kind: EventShotFired, Agent: "H0", Detail: "round 1", Value: 1})
	sl.Record(9, "", Event{Kind: EventProjectileExpired})

	if e, ok := sl.FirstOf("state", "state_changed"); !ok || e.Value != "chase → strafe" || e.Tick != 3 {
		t.Fatalf("state entry = %+v", e)
	}
	if sl.CountCategory("weapon", "") != 1 {
		t.Fatal("shot not filed under weapon")
	}
	e, ok := sl.LastOf("projectile", "projectile_expired")
	if !ok || e.Agent != "--" || e.Profile != "--" {
		t.Fatalf("world event entry = %+v", e)
	}
	if len(sl.FilterAgent("H0")) != 2 {
		t.Fatal("agent filter")
	}
	if len(sl.FilterTickRange(4, 9)) != 2 {
		t.Fatal("tick range filter")
	}
	if !strings.Contains(sl.Format(), "[T=003] H0") {
		t.Fatalf("format:\n%s", sl.Format())
	}
}

func TestSimLog_VerboseGate(t *testing.T) {
	quiet := NewSimLog(false)
	quiet.AddVerbose(1, "H0", "tactical", "position", "pos", "(0,0)", 0)
	if len(quiet.Entries()) != 0 {
		t.Fatal("verbose entry recorded in quiet mode")
	}
	loud := NewSimLog(true)
	loud.AddVerbose(1, "H0", "tactical", "position", "pos", "(0,0)", 0)
	if len(loud.Entries()) != 1 {
		t.Fatal("verbose entry dropped")
	}
}

func TestSimLog_VerboseArenaPositions(t *testing.T) {
	ts := NewTestSim(WithVerbose(true), WithTacticalAgent("H0", 5, 5))
	ts.RunTicks(10)
	if n := ts.SimLog.CountCategory("position", "pos"); n != 10 {
		t.Fatalf("position entries = %d, want 10", n)
	}
}

func TestSimLog_Summary(t *testing.T) {
	ts := NewTestSim(WithTarget(20, 20), WithTacticalAgent("H0", 20, 8))
	ts.RunTicks(120)
	s := ts.Summary()
	for _, want := range []string{"Summary at T=120", "Alive: 1/1", "First shot: T=", "by H0", "Target health"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestEventKind_Categories(t *testing.T) {
	cases := map[EventKind]string{
		EventStateChanged:       "state",
		EventBurstStarted:       "weapon",
		EventShotFired:          "weapon",
		EventAgentDied:          "health",
		EventTargetHit:          "projectile",
		EventProjectileHitWorld: "projectile",
		EventMissingDependency:  "fault",
		EventInvalidDestination: "fault",
	}
	for k, want := range cases {
		if got := k.Category(); got != want {
			t.Fatalf("%s category = %q, want %q", k, got, want)
		}
	}
}

func TestEventBuffer(t *testing.T) {
	var b EventBuffer
	var sink EventSink = multiSink{&b, nil, EventFunc(func(Event) {})}
	sink.Emit(Event{Kind: EventShotFired})
	sink.Emit(Event{Kind: EventShotFired})
	sink.Emit(Event{Kind: EventAgentHit})
	if b.Count(EventShotFired) != 2 || len(b.OfKind(EventAgentHit)) != 1 {
		t.Fatalf("buffer = %+v", b.Events)
	}
	b.Reset()
	if len(b.Events) != 0 {
		t.Fatal("reset left events")
	}
}
