package game

import (
	"fmt"
	"math"
	"strings"
)

// agentDebugReport builds a plain-text timeline of one agent over the last
// lastTicks ticks, suitable for pasting into a bug report.
func agentDebugReport(a *Agent, sl *SimLog, seed int64, tick, lastTicks int) string {
	if a == nil || sl == nil {
		return ""
	}
	if lastTicks <= 0 {
		lastTicks = 300
	}
	fromTick := tick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var entries []SimLogEntry
	for _, e := range sl.FilterTickRange(fromTick, tick) {
		if e.Agent == a.Label() {
			entries = append(entries, e)
		}
	}

	p := a.Profile()
	var b strings.Builder
	fmt.Fprintf(&b, "--- HostileSense debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick_range=[%d..%d] ticks=%d\n", seed, fromTick, tick, tick-fromTick+1)
	fmt.Fprintf(&b, "agent=%s id=%s profile=%s policy=%s\n", a.Label(), a.ID(), p.Name, p.Policy)
	fmt.Fprintf(&b, "state=%s health=%d/%d range=%.1f shots=%d bursts=%d aborted=%d\n",
		a.State(), a.Health(), p.MaxHealth, a.Distance(), a.Shots(),
		a.Weapon().Bursts(), a.Weapon().Aborted())
	fmt.Fprintf(&b, "orbit=%.0f° priority=%d strafe_dir=%+d\n\n",
		a.OrbitAngle()*180/math.Pi, a.AvoidancePriority(), a.StrafeDirection())

	summary := summarizeEntries(entries)
	fmt.Fprintf(&b, "summary: state_changes=%d shots=%d bursts=%d aborted=%d hits_taken=%d faults=%d\n\n",
		summary.stateChanges, summary.shots, summary.bursts, summary.aborted, summary.hitsTaken, summary.faults)

	b.WriteString("== stages ==\n")
	stages := buildStages(entries, a.State(), fromTick, tick)
	for _, st := range stages {
		fmt.Fprintf(&b, "  [%d..%d] %-8s %d ticks\n", st.startTick, st.endTick, st.state, st.endTick-st.startTick+1)
	}

	b.WriteString("\n== events ==\n")
	if len(entries) == 0 {
		b.WriteString("(nothing recorded in range)\n")
	}
	for _, e := range entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

type entrySummary struct {
	stateChanges int
	shots        int
	bursts       int
	aborted      int
	hitsTaken    int
	faults       int
}

func summarizeEntries(entries []SimLogEntry) entrySummary {
	var res entrySummary
	for _, e := range entries {
		switch e.Key {
		case EventStateChanged.String():
			res.stateChanges++
		case EventShotFired.String():
			res.shots++
		case EventBurstStarted.String():
			res.bursts++
		case EventBurstAborted.String():
			res.aborted++
		case EventAgentHit.String():
			res.hitsTaken++
		}
		if e.Category == "fault" {
			res.faults++
		}
	}
	return res
}

type reportStage struct {
	startTick int
	endTick   int
	state     string
}

// buildStages splits [fromTick, toTick] at every state change. The opening
// state is read from the first change, or is the current state when nothing
// changed in range.
func buildStages(entries []SimLogEntry, current State, fromTick, toTick int) []reportStage {
	var changes []SimLogEntry
	for _, e := range entries {
		if e.Key == EventStateChanged.String() {
			changes = append(changes, e)
		}
	}
	if len(changes) == 0 {
		return []reportStage{{startTick: fromTick, endTick: toTick, state: current.String()}}
	}

	var stages []reportStage
	start := fromTick
	state, _, _ := strings.Cut(changes[0].Value, " → ")
	for _, c := range changes {
		if c.Tick > start {
			stages = append(stages, reportStage{startTick: start, endTick: c.Tick - 1, state: state})
		}
		_, state, _ = strings.Cut(c.Value, " → ")
		start = c.Tick
	}
	stages = append(stages, reportStage{startTick: start, endTick: toTick, state: state})
	return stages
}
