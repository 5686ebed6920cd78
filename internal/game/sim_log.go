package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a simulation run.
type SimLogEntry struct {
	Tick     int
	Agent    string  // label e.g. "H0", or "--" for world events
	Profile  string  // agent profile name, or "--"
	Category string  // state, weapon, health, projectile, fault, target
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] H0   state     state_changed    chase → strafe
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Agent, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a simulation.
// Unlike ThoughtLog (UI ring buffer), SimLog is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position and
// distance entries are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, agent, profile, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Agent:    agent,
		Profile:  profile,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, agent, profile, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, agent, profile, category, key, value, numVal)
}

// Verbose reports whether per-tick entries are recorded.
func (sl *SimLog) Verbose() bool { return sl.verbose }

// Record files a core event under its kind's category.
func (sl *SimLog) Record(tick int, profile string, e Event) {
	agent := e.Agent
	if agent == "" {
		agent = "--"
	}
	if profile == "" {
		profile = "--"
	}
	value := e.Detail
	if e.Kind == EventStateChanged {
		value = fmt.Sprintf("%s → %s", e.From, e.To)
	}
	sl.Add(tick, agent, profile, e.Kind.Category(), e.Kind.String(), value, e.Value)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterAgent returns entries for a specific agent label.
func (sl *SimLog) FilterAgent(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Agent == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// FirstOf returns the earliest entry matching category+key, or false if none.
func (sl *SimLog) FirstOf(category, key string) (SimLogEntry, bool) {
	for _, e := range sl.entries {
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the simulation state.
func (sl *SimLog) Summary(tick int, agents []*Agent, target Target) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", tick)

	counts := map[State]int{}
	alive := 0
	for _, a := range agents {
		counts[a.State()]++
		if a.State() != StateDead {
			alive++
		}
	}
	sb.WriteString("States: ")
	for _, s := range []State{StateIdle, StateChase, StateHold, StateCombatStrafe, StateReposition, StateDead} {
		if n := counts[s]; n > 0 {
			fmt.Fprintf(&sb, "%s=%d  ", s, n)
		}
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "Alive: %d/%d\n", alive, len(agents))

	fmt.Fprintf(&sb, "Shots: %d  bursts: %d  aborted: %d\n",
		sl.CountCategory("weapon", EventShotFired.String()),
		sl.CountCategory("weapon", EventBurstStarted.String()),
		sl.CountCategory("weapon", EventBurstAborted.String()))
	fmt.Fprintf(&sb, "Hits on target: %d  world impacts: %d  expired: %d\n",
		sl.CountCategory("projectile", EventTargetHit.String()),
		sl.CountCategory("projectile", EventProjectileHitWorld.String()),
		sl.CountCategory("projectile", EventProjectileExpired.String()))

	if e, ok := sl.FirstOf("weapon", EventShotFired.String()); ok {
		fmt.Fprintf(&sb, "First shot: T=%03d by %s\n", e.Tick, e.Agent)
	}
	if target != nil {
		fmt.Fprintf(&sb, "Target health: %d\n", target.CurrentHealth())
	} else {
		sb.WriteString("Target: detached\n")
	}
	return sb.String()
}
