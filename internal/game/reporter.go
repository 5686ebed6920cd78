package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window (10s at 60 TPS).
const reportWindowTicks = 600

// SimReport is one periodic snapshot of the hostile population.
type SimReport struct {
	Tick     int
	States   map[State]int
	Alive    int
	Dead     int
	Wounded  int
	Bursting int
	// MeanDistance averages the live agents' last measured range to target.
	MeanDistance float64
}

// --- Reporter ---

// SimReporter collects periodic reports from the simulation and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history     []SimReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect gathers a snapshot from the current agents.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *SimReporter) Collect(tick int, agents []*Agent) {
	report := SimReport{Tick: tick, States: make(map[State]int)}
	dist := 0.0
	for _, a := range agents {
		report.States[a.State()]++
		if a.State() == StateDead {
			report.Dead++
			continue
		}
		report.Alive++
		if a.Health() < a.Profile().MaxHealth {
			report.Wounded++
		}
		if a.Weapon().Bursting() {
			report.Bursting++
		}
		dist += a.Distance()
	}
	if report.Alive > 0 {
		report.MeanDistance = dist / float64(report.Alive)
	}
	r.history = append(r.history, report)
}

// Latest returns the most recent report, or nil.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns every report collected so far.
func (r *SimReporter) History() []SimReport { return r.history }

// WindowSummary averages the reports inside the trailing window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latest := r.history[len(r.history)-1]
	cutoff := latest.Tick - r.windowTicks
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	wr := &WindowReport{
		FromTick:    window[len(window)-1].Tick,
		ToTick:      latest.Tick,
		SampleCount: len(window),
		StatePct:    make(map[State]float64),
		TotalDead:   latest.Dead,
	}
	n := float64(len(window))
	for _, rep := range window {
		total := 0
		for _, c := range rep.States {
			total += c
		}
		if total > 0 {
			for s, c := range rep.States {
				wr.StatePct[s] += 100 * float64(c) / float64(total) / n
			}
		}
		wr.AvgAlive += float64(rep.Alive) / n
		wr.AvgWounded += float64(rep.Wounded) / n
		wr.AvgBursting += float64(rep.Bursting) / n
		wr.AvgDistance += rep.MeanDistance / n
	}
	return wr
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	// State distribution as percentages (0-100).
	StatePct map[State]float64

	AvgAlive, AvgWounded, AvgBursting float64
	AvgDistance                       float64

	TotalDead int
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Behaviour Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)

	sb.WriteString("\n--- State Distribution ---\n")
	for _, s := range []State{StateIdle, StateChase, StateHold, StateCombatStrafe, StateReposition, StateDead} {
		if pct := wr.StatePct[s]; pct > 0.5 {
			fmt.Fprintf(&sb, "  %-12s %5.1f%%\n", s, pct)
		}
	}

	sb.WriteString("\n--- Population ---\n")
	fmt.Fprintf(&sb, "  alive=%.1f  wounded=%.1f  dead=%d\n", wr.AvgAlive, wr.AvgWounded, wr.TotalDead)
	fmt.Fprintf(&sb, "  firing=%.1f  mean range=%.1f\n", wr.AvgBursting, wr.AvgDistance)
	return sb.String()
}
