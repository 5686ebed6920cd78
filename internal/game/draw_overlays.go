package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 380
	logLineHeight = 14
)

// drawGrid draws faint lines every two world units.
func (g *Game) drawGrid(screen *ebiten.Image) {
	w, d := g.arena.Size()
	c := color.RGBA{R: 255, G: 255, B: 255, A: 8}
	for x := 0.0; x <= w; x += 2 {
		x0, y0 := g.worldToScreen(Vec3{X: x})
		_, y1 := g.worldToScreen(Vec3{X: x, Z: d})
		vector.StrokeLine(screen, x0, y0, x0, y1, 1.0, c, false)
	}
	for z := 0.0; z <= d; z += 2 {
		x0, y0 := g.worldToScreen(Vec3{Z: z})
		x1, _ := g.worldToScreen(Vec3{X: w, Z: z})
		vector.StrokeLine(screen, x0, y0, x1, y0, 1.0, c, false)
	}
}

// drawAgentIntent shows where the selected agent is heading: its preferred
// engagement band around the target, and a line to its nav destination.
func (g *Game) drawAgentIntent(screen *ebiten.Image, a *Agent) {
	p := a.Profile()
	tx, ty := g.worldToScreen(g.arena.Target().Position())
	band := color.RGBA{R: 220, G: 80, B: 60, A: 40}
	if p.Policy == PolicyTactical {
		vector.StrokeCircle(screen, tx, ty, float32(p.MinRange*g.scale), 1.0, band, true)
		vector.StrokeCircle(screen, tx, ty, float32(p.MaxRange*g.scale), 1.0, band, true)
	} else {
		vector.StrokeCircle(screen, tx, ty, float32(p.ShootRange*g.scale), 1.0, band, true)
	}

	nav := a.Nav()
	if !nav.HasDestination() {
		return
	}
	ax, ay := g.worldToScreen(a.Position())
	dx, dy := g.worldToScreen(nav.Destination())
	lineCol := color.RGBA{R: 220, G: 80, B: 60, A: 90}
	if a.State() == StateReposition {
		lineCol = color.RGBA{R: 230, G: 210, B: 60, A: 110}
	}
	vector.StrokeLine(screen, ax, ay, dx, dy, 1.0, lineCol, true)
	vector.StrokeCircle(screen, dx, dy, 3, 1.0, lineCol, true)
}

func (g *Game) drawHealthBar(screen *ebiten.Image, cx, y float32, hp, maxHP int) {
	if maxHP <= 0 {
		return
	}
	const w, h = 30, 4
	frac := float32(math.Max(0, float64(hp)/float64(maxHP)))
	vector.FillRect(screen, cx-w/2, y, w, h, color.RGBA{R: 40, G: 20, B: 20, A: 220}, false)
	vector.FillRect(screen, cx-w/2, y, w*frac, h, color.RGBA{R: 80, G: 200, B: 90, A: 255}, false)
}

// drawProjectiles renders each round as a short streak behind its position.
func (g *Game) drawProjectiles(screen *ebiten.Image) {
	for _, p := range g.arena.Projectiles() {
		if p.Done() {
			continue
		}
		tail := p.Pos.Sub(p.Vel.Normalize().Scale(0.8))
		x0, y0 := g.worldToScreen(tail)
		x1, y1 := g.worldToScreen(p.Pos)
		col := color.RGBA{R: 255, G: 200, B: 90, A: 230}
		if p.Faction == FactionPlayer {
			col = color.RGBA{R: 140, G: 200, B: 255, A: 230}
		}
		vector.StrokeLine(screen, x0, y0, x1, y1, 2.0, col, true)
	}
}

// drawEffects fades muzzle flashes, hit flashes and impacts by their
// remaining life.
func (g *Game) drawEffects(screen *ebiten.Image) {
	for _, e := range g.arena.Effects() {
		alpha := e.Alpha()
		x, y := g.worldToScreen(e.Pos)
		var col color.RGBA
		var r float32
		switch e.Kind {
		case EffectMuzzleFlash:
			col = color.RGBA{R: 255, G: 230, B: 120}
			r = 5
		case EffectHitFlash:
			col = color.RGBA{R: 255, G: 60, B: 60}
			r = 8
		default:
			col = color.RGBA{R: 200, G: 190, B: 170}
			r = 4
		}
		col.A = uint8(220 * alpha)
		vector.FillCircle(screen, x, y, r*float32(0.5+alpha/2), col, true)
	}
}

// drawThoughtLog renders the agents' recent decisions, newest at the bottom.
func (g *Game) drawThoughtLog(screen *ebiten.Image, panelX, panelH int) {
	tl := g.arena.Thoughts()
	if tl == nil {
		return
	}
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 12, G: 10, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 70, G: 50, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 30, G: 20, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "THOUGHT LOG", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 80, G: 50, B: 50, A: 200}, false)

	entries := tl.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	const recent = 3
	y := 20
	for i, e := range entries {
		if i >= len(entries)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 40, G: 30, B: 30, A: 160}, false)
		}
		dot := color.RGBA{R: 210, G: 70, B: 70, A: 255}
		if sel := g.inspector.selected; sel != nil && sel.Label() == e.Label {
			dot = color.RGBA{R: 255, G: 230, B: 120, A: 255}
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, dot, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d [%s] %s", e.Tick, e.Label, e.Message), panelX+12, y)
		y += logLineHeight
	}
}
