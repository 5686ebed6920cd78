package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Garsondee/Hostile-Sense/internal/game"
)

func TestCollectStats(t *testing.T) {
	entries := []game.SimLogEntry{
		{Tick: 1, Category: "state", Key: "state_changed", Value: "idle → chase"},
		{Tick: 30, Category: "state", Key: "state_changed", Value: "chase → strafe"},
		{Tick: 31, Category: "weapon", Key: "burst_started"},
		{Tick: 31, Category: "weapon", Key: "shot_fired"},
		{Tick: 37, Category: "weapon", Key: "shot_fired"},
		{Tick: 40, Category: "projectile", Key: "target_hit", Value: "target"},
		{Tick: 44, Category: "projectile", Key: "projectile_hit_world"},
		{Tick: 90, Category: "state", Key: "state_changed", Value: "strafe → reposition"},
		{Tick: 91, Category: "weapon", Key: "burst_aborted"},
		{Tick: 95, Category: "fault", Key: "invalid_destination"},
		{Tick: 120, Category: "health", Key: "agent_died"},
	}
	rs := collectStats(entries)
	if rs.firstEngageTick != 30 || rs.firstRepositionTick != 90 || rs.firstHitTick != 40 || rs.firstDeathTick != 120 {
		t.Fatalf("phase markers = %+v", rs)
	}
	if rs.targetDownTick != -1 {
		t.Fatalf("targetDownTick = %d, want -1", rs.targetDownTick)
	}
	if rs.stateChanges != 3 || rs.repositions != 1 {
		t.Fatalf("state changes=%d repositions=%d", rs.stateChanges, rs.repositions)
	}
	if rs.shots != 2 || rs.bursts != 1 || rs.aborted != 1 || rs.hits != 1 || rs.worldHits != 1 || rs.faults != 1 {
		t.Fatalf("totals = %+v", rs)
	}
}

func TestCollectStats_HoldCountsAsEngage(t *testing.T) {
	rs := collectStats([]game.SimLogEntry{
		{Tick: 12, Category: "state", Key: "state_changed", Value: "chase → hold"},
		{Tick: 50, Category: "state", Key: "state_changed", Value: "hold → strafe"},
	})
	if rs.firstEngageTick != 12 {
		t.Fatalf("firstEngageTick = %d, want 12", rs.firstEngageTick)
	}
}

func TestAccuracyAndAverages(t *testing.T) {
	if accuracy(0, 0) != 0 || accuracy(1, 4) != 25 {
		t.Fatal("accuracy")
	}
	if avg(9, 0) != 0 || avg(9, 3) != 3 {
		t.Fatal("avg")
	}
	if avgTickString(nil) != "n/a" || avgTickString([]int{10, 20}) != "15.0" {
		t.Fatal("avgTickString")
	}
	if got := joinCounts(map[string]int{"b": 2, "a": 1}); got != "a=1,b=2" {
		t.Fatalf("joinCounts = %q", got)
	}
}

func TestResolveProfile(t *testing.T) {
	p, err := resolveProfile("", "ranged")
	if err != nil || p.Policy != game.PolicyApproach {
		t.Fatalf("ranged preset = %+v, %v", p, err)
	}
	if _, err := resolveProfile("", "mortar"); err == nil {
		t.Fatal("expected unknown preset error")
	}
	p, err = resolveProfile("../../configs/profiles.yaml", "sniper")
	if err != nil {
		t.Fatalf("sniper: %v", err)
	}
	if p.Name != "sniper" {
		t.Fatalf("name = %q", p.Name)
	}
}

func TestRunAll_ParallelMatchesSequential(t *testing.T) {
	cfg := runConfig{scenario: "duel", ticks: 600, profile: game.TacticalProfile()}
	par, err := runAll(context.Background(), cfg, 4, 7, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	seq, err := runAll(context.Background(), cfg, 4, 7, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := range par {
		a, b := par[i], seq[i]
		if a.seed != 7+int64(i)*3 || a.runIndex != i+1 {
			t.Fatalf("run %d out of order: seed=%d index=%d", i, a.seed, a.runIndex)
		}
		if a.shots != b.shots || a.hits != b.hits || a.stateChanges != b.stateChanges {
			t.Fatalf("run %d differs: parallel=%+v sequential=%+v", i, a, b)
		}
	}
	if par[0].shots == 0 {
		t.Fatal("duel produced no shots in 10s")
	}
}

func TestRunScenario_Wave(t *testing.T) {
	cfg := runConfig{scenario: "wave", wave: 2, ticks: 120, profile: game.ChaserProfile()}
	rs, err := runScenario(cfg, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if rs.agents != game.WaveSize(2) {
		t.Fatalf("agents = %d, want %d", rs.agents, game.WaveSize(2))
	}
	if rs.windowSummary == nil || rs.windowSummary.SampleCount != 2 {
		t.Fatalf("window = %+v", rs.windowSummary)
	}
}

func TestRunScenario_Errors(t *testing.T) {
	if _, err := runScenario(runConfig{scenario: "siege", ticks: 1, profile: game.TacticalProfile()}, 1, 1); err == nil {
		t.Fatal("expected unsupported scenario error")
	}
	_, err := runAll(context.Background(), runConfig{scenario: "duel", ticks: 1, profile: game.TacticalProfile(), script: "moonwalk"}, 2, 1, 1, 2)
	if !errors.Is(err, game.ErrUnknownScript) {
		t.Fatalf("err = %v, want ErrUnknownScript", err)
	}
	if !strings.Contains(err.Error(), "seed=") {
		t.Fatalf("err = %v, want run context", err)
	}
}
