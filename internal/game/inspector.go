package game

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Inspector panel, rendered into an offscreen buffer at 1× then blitted at inspScale.
const (
	inspScale = 2   // scale factor for inspector text rendering
	inspBufW  = 220 // buffer width in pixels (~36 chars at debug font)
	inspBufH  = 250 // buffer height in pixels
	inspPad   = 4   // padding in buffer-space pixels
	inspLineH = 13  // line height in buffer-space pixels
)

// Inspector holds the selected agent and view toggle state.
type Inspector struct {
	selected *Agent
	rawView  bool // false = curated, true = raw dump
}

// Selected returns the inspected agent, or nil.
func (in *Inspector) Selected() *Agent { return in.selected }

// handleInspectorClick selects the live agent nearest the click, within a
// fixed screen-space radius. Clicking empty ground deselects.
func (g *Game) handleInspectorClick(mx, my int) bool {
	w := g.screenToWorld(mx, my)
	hit := g.pickAgent(w, pickRadiusPx/g.scale)
	g.inspector.selected = hit
	return hit != nil
}

func (g *Game) pickAgent(w Vec3, radius float64) *Agent {
	best := math.MaxFloat64
	var hit *Agent
	for _, a := range g.arena.Agents() {
		if a.State() == StateDead {
			continue
		}
		d := a.Position().FlatDist(w)
		if d < radius && d < best {
			best = d
			hit = a
		}
	}
	return hit
}

// drawInspector renders the inspector panel into an offscreen buffer at 1×,
// then blits it onto the screen at inspScale for readability.
func (g *Game) drawInspector(screen *ebiten.Image) {
	a := g.inspector.selected
	if a == nil {
		return
	}
	if g.inspBuf == nil {
		g.inspBuf = ebiten.NewImage(inspBufW, inspBufH)
	}
	g.inspBuf.Clear()

	buf := g.inspBuf
	bw := float32(inspBufW)
	bh := float32(inspBufH)

	panelBorder := color.RGBA{R: 80, G: 55, B: 55, A: 255}
	vector.FillRect(buf, 0, 0, bw, bh, color.RGBA{R: 16, G: 14, B: 14, A: 230}, false)
	vector.StrokeRect(buf, 0, 0, bw, bh, 1.0, panelBorder, false)

	lx := inspPad
	ly := inspPad
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("[ %s  %s ]", a.Label(), a.Profile().Name), lx, ly)
	ly += inspLineH + 2

	viewName := "CURATED"
	if g.inspector.rawView {
		viewName = "RAW"
	}
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("view: %s  [I] toggle", viewName), lx, ly)
	ly += inspLineH + 4
	vector.StrokeLine(buf, float32(lx), float32(ly), bw-float32(inspPad), float32(ly), 1.0, panelBorder, false)
	ly += 4

	var lines []string
	if g.inspector.rawView {
		lines = inspectorRawLines(a)
	} else {
		lines = inspectorCuratedLines(a)
	}
	for _, l := range lines {
		ebitenutil.DebugPrintAt(buf, l, lx, ly)
		ly += inspLineH
	}

	px := g.width - logPanelWidth - inspBufW*inspScale - 12
	py := g.height - inspBufH*inspScale - g.offY - 8
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(inspScale), float64(inspScale))
	opts.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(buf, opts)
}

func bar(label string, v float64) string {
	filled := int(math.Round(math.Max(0, math.Min(1, v)) * 14))
	return fmt.Sprintf("%-7s %s%s %.2f", label, strings.Repeat("#", filled), strings.Repeat(".", 14-filled), v)
}

// inspectorCuratedLines is the human-readable view of an agent.
func inspectorCuratedLines(a *Agent) []string {
	p := a.Profile()
	per := a.Perception()
	w := a.Weapon()

	sight := "clear"
	if !per.Visible() {
		sight = fmt.Sprintf("blocked %.1fs", per.Blocked())
	}
	lines := []string{
		"-- SITUATION --",
		fmt.Sprintf("state: %s  policy: %s", a.State(), p.Policy),
		fmt.Sprintf("range: %.1f  sight: %s", a.Distance(), sight),
	}
	if p.Policy == PolicyTactical {
		lines = append(lines, fmt.Sprintf("band: %.0f..%.0f pref %.0f", p.MinRange, p.MaxRange, p.PreferredRange))
		if a.State() == StateCombatStrafe {
			lines = append(lines, fmt.Sprintf("strafe: %+d", a.StrafeDirection()))
		}
		if a.State() == StateReposition {
			kind := "retreat"
			if a.RepositionFlank() {
				kind = "flank"
			}
			rt := a.RepositionTarget()
			lines = append(lines, fmt.Sprintf("%s -> (%.0f,%.0f)", kind, rt.X, rt.Z))
		}
	} else {
		lines = append(lines, fmt.Sprintf("shoot %.0f / resume %.0f", p.ShootRange, p.ResumeChaseRange))
	}

	lines = append(lines,
		"-- WEAPON --",
		fmt.Sprintf("bursting: %v  ready: %v", w.Bursting(), w.Ready()),
		fmt.Sprintf("shots %d  bursts %d  aborted %d", a.Shots(), w.Bursts(), w.Aborted()),
		"-- BODY --",
		bar("health", float64(a.Health())/float64(max(1, p.MaxHealth))),
		bar("flash", a.HitFlash()/math.Max(p.HitFlash, 1e-9)),
		fmt.Sprintf("pos: (%.1f,%.1f) speed %.1f", a.Position().X, a.Position().Z, a.Nav().Speed()),
	)
	return lines
}

// inspectorRawLines dumps the agent's fields verbatim.
func inspectorRawLines(a *Agent) []string {
	per := a.Perception()
	w := a.Weapon()
	nav := a.Nav()
	dest := nav.Destination()
	return []string{
		fmt.Sprintf("id=%s", a.ID().String()[:18]),
		fmt.Sprintf("collider=%d faction=%s", a.ColliderID(), a.Faction()),
		fmt.Sprintf("st=%s hp=%d shots=%d", a.State(), a.Health(), a.Shots()),
		fmt.Sprintf("yaw=%.2f orbit=%.0f prio=%d", a.Yaw(), a.OrbitAngle()*180/math.Pi, a.AvoidancePriority()),
		fmt.Sprintf("vis=%v blk=%.2f checks=%d", per.Visible(), per.Blocked(), per.Checks()),
		fmt.Sprintf("burst=%v cd=%.2f", w.Bursting(), w.Cooldown()),
		fmt.Sprintf("managed=%v dest=%v", nav.Managed(), nav.HasDestination()),
		fmt.Sprintf("dest=(%.1f,%.1f) rem=%.1f", dest.X, dest.Z, nav.RemainingDistance()),
		fmt.Sprintf("moving=%v pending=%v", nav.IsMoving(), nav.IsPathPending()),
		fmt.Sprintf("strafe=%+d flank=%v", a.StrafeDirection(), a.RepositionFlank()),
	}
}
