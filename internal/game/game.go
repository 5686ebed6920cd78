package game

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// borderWidth is the pixel gap between the window edge and the arena.
const borderWidth = 24

const (
	simDT            = 1.0 / 60
	playerMoveSpeed  = 6.0  // units/s
	playerShotSpeed  = 40.0 // units/s
	playerShotDamage = 25
	spawnMinDist     = 15.0
	statusTicks      = 180
	pickRadiusPx     = 16.0
	waveClearHeal    = 25
)

// GameConfig configures the interactive viewer.
type GameConfig struct {
	Seed         int64
	Width, Depth float64
	Obstacles    []Box
	// ProfilesPath is a YAML profiles file. It is watched and re-applied to
	// live agents on change. Empty uses the built-in presets.
	ProfilesPath string
	// Profile names the profile each wave spawns with.
	Profile      string
	Wave         int
	TargetScript string
	Logger       *slog.Logger
}

// DefaultObstacles is the small cover layout the viewer and headless
// scenarios share.
func DefaultObstacles() []Box {
	return []Box{
		NewBox(12, 12, 6, 2),
		NewBox(42, 12, 2, 8),
		NewBox(20, 36, 8, 2),
		NewBox(36, 22, 2, 6),
		NewBox(12, 44, 2, 6),
		NewBox(40, 44, 8, 2),
	}
}

// Game is the ebiten front end: it steps an Arena at a fixed rate, draws it,
// and lets a human play the target.
type Game struct {
	cfg      GameConfig
	arena    *Arena
	profiles map[string]Profile
	watcher  *ProfileWatcher
	reporter *SimReporter
	logger   *slog.Logger

	inspector Inspector
	wave      int

	simSpeed  float64
	tickAccum float64
	showHUD   bool
	showLog   bool

	prevKeys       map[ebiten.Key]bool
	prevMouseLeft  bool
	prevMouseRight bool

	status      string
	statusTimer int

	width, height         int
	gameWidth, gameHeight int
	offX, offY            int
	scale                 float64 // pixels per world unit

	hudFace *text.GoXFace
	inspBuf *ebiten.Image
}

// New builds the arena, spawns the first wave and starts watching the
// profiles file.
func New(cfg GameConfig) (*Game, error) {
	if cfg.Width <= 0 {
		cfg.Width = defaultArenaWidth
	}
	if cfg.Depth <= 0 {
		cfg.Depth = defaultArenaDepth
	}
	if cfg.Obstacles == nil {
		cfg.Obstacles = DefaultObstacles()
	}
	if cfg.Profile == "" {
		cfg.Profile = "tactical"
	}
	if cfg.Wave < 1 {
		cfg.Wave = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	g := &Game{
		cfg:      cfg,
		reporter: NewSimReporter(0),
		logger:   cfg.Logger,
		simSpeed: 1,
		showHUD:  true,
		showLog:  true,
		prevKeys: map[ebiten.Key]bool{},
		hudFace:  text.NewGoXFace(basicfont.Face7x13),
	}

	if cfg.ProfilesPath != "" {
		profiles, err := LoadProfiles(cfg.ProfilesPath)
		if err != nil {
			return nil, err
		}
		g.profiles = profiles
	} else {
		g.profiles = presetProfiles()
	}
	if _, ok := g.profiles[cfg.Profile]; !ok {
		return nil, fmt.Errorf("game: unknown profile %q", cfg.Profile)
	}

	if err := g.reset(); err != nil {
		return nil, err
	}

	if cfg.ProfilesPath != "" {
		w, err := WatchProfiles(cfg.ProfilesPath)
		if err != nil {
			g.logger.Warn("profile hot reload disabled", "path", cfg.ProfilesPath, "err", err)
		} else {
			g.watcher = w
		}
	}

	g.width, g.height = 1600, 900
	g.layout()
	return g, nil
}

func presetProfiles() map[string]Profile {
	out := map[string]Profile{}
	for _, name := range []string{"tactical", "ranged", "chaser"} {
		p, _ := Preset(name)
		out[name] = p
	}
	return out
}

// reset rebuilds the arena from scratch at the configured wave.
func (g *Game) reset() error {
	g.arena = NewArena(ArenaConfig{
		Width:     g.cfg.Width,
		Depth:     g.cfg.Depth,
		Obstacles: g.cfg.Obstacles,
		Seed:      g.cfg.Seed,
		Logger:    g.logger,
		Thoughts:  NewThoughtLog(),
	})
	g.arena.OnAgentDied = func(a *Agent) {
		if g.inspector.selected == a {
			g.inspector.selected = nil
		}
	}
	if g.cfg.TargetScript != "" {
		s, err := LoadTargetScript(g.cfg.TargetScript, g.arena.Target().Position())
		if err != nil {
			return err
		}
		g.arena.SetTargetMotion(s)
	}
	g.reporter = NewSimReporter(0)
	g.inspector = Inspector{}
	g.wave = g.cfg.Wave
	_, err := g.arena.SpawnWave(g.wave, g.profiles[g.cfg.Profile], spawnMinDist)
	return err
}

// Close stops the profile watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Arena() *Arena { return g.arena }

func (g *Game) Update() error {
	// Handle input every frame regardless of sim speed.
	g.handleInput()
	g.pollProfiles()

	if g.statusTimer > 0 {
		g.statusTimer--
	}
	if g.simSpeed <= 0 {
		return nil
	}

	// For speeds > 1 run multiple sim ticks per frame.
	// For speeds < 1 accumulate fractions.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.simTick()
	}
	return nil
}

// simTick runs one simulation tick.
func (g *Game) simTick() {
	g.arena.Step(simDT)

	if g.arena.Tick()%60 == 0 {
		g.reporter.Collect(g.arena.Tick(), g.arena.Agents())
	}

	if g.arena.Target().CurrentHealth() <= 0 {
		g.simSpeed = 0
		g.setStatus("target down at wave %d. R to restart", g.wave)
		return
	}
	if g.arena.Alive() == 0 {
		// Clearing a wave restores some target health; skipping with N does not.
		g.arena.Target().Heal(waveClearHeal)
		g.nextWave()
	}
}

func (g *Game) nextWave() {
	g.wave++
	if _, err := g.arena.SpawnWave(g.wave, g.profiles[g.cfg.Profile], spawnMinDist); err != nil {
		g.logger.Warn("wave spawn incomplete", "wave", g.wave, "err", err)
	}
	g.setStatus("wave %d: %d hostiles", g.wave, WaveSize(g.wave))
}

// pollProfiles drains pending reloads without blocking the frame.
func (g *Game) pollProfiles() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case rl, ok := <-g.watcher.Reloads:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyReload(rl)
		default:
			return
		}
	}
}

// applyReload swaps in reloaded profiles and pushes them onto every live
// agent whose profile name is still defined. It returns how many agents
// took the new profile.
func (g *Game) applyReload(rl ProfileReload) int {
	if rl.Err != nil {
		g.logger.Warn("profile reload rejected", "err", rl.Err)
		g.setStatus("profiles not reloaded: %v", rl.Err)
		return 0
	}
	if _, ok := rl.Profiles[g.cfg.Profile]; !ok {
		g.logger.Warn("profile reload dropped the wave profile", "profile", g.cfg.Profile)
		g.setStatus("profiles not reloaded: %q missing", g.cfg.Profile)
		return 0
	}
	g.profiles = rl.Profiles

	applied := 0
	var errs []error
	for _, a := range g.arena.Agents() {
		if a.State() == StateDead {
			continue
		}
		p, ok := rl.Profiles[a.Profile().Name]
		if !ok {
			continue
		}
		if err := a.SetProfile(p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.Label(), err))
			continue
		}
		applied++
	}
	if err := errors.Join(errs...); err != nil {
		g.logger.Warn("profile reload partially applied", "err", err)
	}
	g.logger.Info("profiles reloaded", "profiles", len(rl.Profiles), "agents", applied)
	g.setStatus("profiles reloaded (%d agents)", applied)
	return applied
}

func (g *Game) setStatus(format string, args ...any) {
	g.status = fmt.Sprintf(format, args...)
	g.statusTimer = statusTicks
}

// keyPressed reports a rising edge for k.
func (g *Game) keyPressed(k ebiten.Key, current map[ebiten.Key]bool) bool {
	current[k] = ebiten.IsKeyPressed(k)
	return current[k] && !g.prevKeys[k]
}

// handleInput processes movement, firing and toggles (edge-triggered).
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	// Target movement: WASD or arrow keys.
	var move Vec3
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		move.Z--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		move.Z++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		move.X++
	}
	if !move.IsZero() && g.simSpeed > 0 {
		g.movePlayer(move)
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if g.keyPressed(ebiten.KeyP, currentKeys) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if g.keyPressed(ebiten.KeyComma, currentKeys) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if g.keyPressed(ebiten.KeyPeriod, currentKeys) {
		for i, s := range speeds {
			if s <= g.simSpeed && i < len(speeds)-1 && speeds[i+1] > g.simSpeed {
				g.simSpeed = speeds[i+1]
				break
			}
		}
	}

	if g.keyPressed(ebiten.KeyH, currentKeys) {
		g.showHUD = !g.showHUD
	}
	if g.keyPressed(ebiten.KeyT, currentKeys) {
		g.showLog = !g.showLog
	}
	if g.keyPressed(ebiten.KeyI, currentKeys) {
		g.inspector.rawView = !g.inspector.rawView
	}
	if g.keyPressed(ebiten.KeyN, currentKeys) {
		g.nextWave()
	}
	if g.keyPressed(ebiten.KeyR, currentKeys) {
		if err := g.reset(); err != nil {
			g.setStatus("restart failed: %v", err)
		} else {
			g.simSpeed = 1
			g.setStatus("restarted")
		}
	}
	if g.keyPressed(ebiten.KeyC, currentKeys) {
		g.copyReport()
	}

	// Left click selects an agent, right click fires at the cursor.
	mx, my := ebiten.CursorPosition()
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if left && !g.prevMouseLeft {
		g.handleInspectorClick(mx, my)
	}
	g.prevMouseLeft = left
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if right && !g.prevMouseRight && g.simSpeed > 0 {
		g.playerFire(g.screenToWorld(mx, my))
	}
	g.prevMouseRight = right

	g.prevKeys = currentKeys
}

func (g *Game) movePlayer(dir Vec3) bool {
	pos := g.arena.Target().Position()
	return g.arena.MovePlayer(pos.Add(dir.Normalize().Scale(playerMoveSpeed * simDT * g.simSpeed)))
}

// playerFire launches a player round from the target toward aim.
func (g *Game) playerFire(aim Vec3) {
	from := g.arena.Target().Position()
	dir := aim.Sub(from).Flat()
	if dir.IsZero() {
		return
	}
	vel := dir.Normalize().Scale(playerShotSpeed)
	g.arena.SpawnProjectile(from, vel, playerShotDamage, FactionPlayer)
	g.arena.EmitTransientEffect(EffectMuzzleFlash, from)
}

// copyReport puts the engagement summary, and the selected agent's timeline
// when there is one, on the system clipboard.
func (g *Game) copyReport() {
	report := g.arena.Log().Summary(g.arena.Tick(), g.arena.Agents(), g.arena.Target())
	report += g.reporter.WindowSummary().Format()
	if a := g.inspector.selected; a != nil {
		report += "\n" + agentDebugReport(a, g.arena.Log(), g.cfg.Seed, g.arena.Tick(), 0)
	}
	if err := clipboard.WriteAll(report); err != nil {
		g.logger.Warn("clipboard unavailable", "err", err)
		g.setStatus("copy failed: %v", err)
		return
	}
	g.setStatus("report copied (%d bytes)", len(report))
}

// layout fits the arena into the window left of the thought log panel.
func (g *Game) layout() {
	avail := g.width - logPanelWidth - 2*borderWidth
	availH := g.height - 2*borderWidth
	w, d := g.arena.Size()
	g.scale = math.Min(float64(avail)/w, float64(availH)/d)
	g.gameWidth = int(w * g.scale)
	g.gameHeight = int(d * g.scale)
	g.offX = borderWidth
	g.offY = borderWidth
}

func (g *Game) worldToScreen(p Vec3) (float32, float32) {
	return float32(float64(g.offX) + p.X*g.scale), float32(float64(g.offY) + p.Z*g.scale)
}

func (g *Game) screenToWorld(x, y int) Vec3 {
	return Vec3{
		X: (float64(x) - float64(g.offX)) / g.scale,
		Z: (float64(y) - float64(g.offY)) / g.scale,
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Window background: very dark, outside the arena.
	screen.Fill(color.RGBA{R: 12, G: 12, B: 14, A: 255})

	g.drawWorld(screen)

	ox := float32(g.offX)
	oy := float32(g.offY)
	gw := float32(g.gameWidth)
	gh := float32(g.gameHeight)
	borderCol := color.RGBA{R: 90, G: 65, B: 65, A: 255}
	vector.StrokeRect(screen, ox-1, oy-1, gw+2, gh+2, 2.0, borderCol, false)
	vector.StrokeRect(screen, ox-3, oy-3, gw+6, gh+6, 1.0, color.RGBA{R: 65, G: 40, B: 40, A: 100}, false)

	if g.showLog {
		g.drawThoughtLog(screen, g.width-logPanelWidth, g.height)
	}
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.drawInspector(screen)
}

func (g *Game) drawWorld(screen *ebiten.Image) {
	ox, oy := float32(g.offX), float32(g.offY)
	vector.FillRect(screen, ox, oy, float32(g.gameWidth), float32(g.gameHeight),
		color.RGBA{R: 34, G: 36, B: 38, A: 255}, false)
	g.drawGrid(screen)

	for _, b := range g.arena.Obstacles() {
		x0, y0 := g.worldToScreen(Vec3{X: b.MinX, Z: b.MinZ})
		x1, y1 := g.worldToScreen(Vec3{X: b.MaxX, Z: b.MaxZ})
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, color.RGBA{R: 88, G: 84, B: 78, A: 255}, false)
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1.0, color.RGBA{R: 120, G: 116, B: 108, A: 255}, false)
	}

	if a := g.inspector.selected; a != nil {
		g.drawAgentIntent(screen, a)
	}

	r := float32(bodyRadius * g.scale)
	for _, a := range g.arena.Agents() {
		x, y := g.worldToScreen(a.Position())
		if a.State() == StateDead {
			vector.StrokeCircle(screen, x, y, r, 1.0, color.RGBA{R: 80, G: 40, B: 40, A: 160}, true)
			continue
		}
		col := stateColor(a.State())
		if a.HitFlash() > 0 {
			col = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		vector.FillCircle(screen, x, y, r, col, true)
		fwd := YawVector(a.Yaw())
		vector.StrokeLine(screen, x, y, x+float32(fwd.X)*r*1.8, y+float32(fwd.Z)*r*1.8, 2.0, col, true)
		if g.inspector.selected == a {
			vector.StrokeCircle(screen, x, y, r+4, 1.5, color.RGBA{R: 255, G: 230, B: 120, A: 220}, true)
		}
	}

	p := g.arena.Target()
	px, py := g.worldToScreen(p.Position())
	vector.FillCircle(screen, px, py, r, color.RGBA{R: 70, G: 140, B: 235, A: 255}, true)
	g.drawHealthBar(screen, px, py-r-8, p.CurrentHealth(), p.MaxHealth())

	g.drawProjectiles(screen)
	g.drawEffects(screen)
}

// stateColor maps agent states to body colours.
func stateColor(s State) color.RGBA {
	switch s {
	case StateChase:
		return color.RGBA{R: 230, G: 140, B: 40, A: 255}
	case StateHold:
		return color.RGBA{R: 200, G: 60, B: 160, A: 255}
	case StateCombatStrafe:
		return color.RGBA{R: 220, G: 50, B: 50, A: 255}
	case StateReposition:
		return color.RGBA{R: 230, G: 210, B: 60, A: 255}
	case StateDead:
		return color.RGBA{R: 80, G: 40, B: 40, A: 255}
	default:
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
}

// hudLines is the text of the HUD panel.
func (g *Game) hudLines() []string {
	speedStr := "1x"
	switch {
	case g.simSpeed == 0:
		speedStr = "PAUSED"
	case g.simSpeed != 1:
		speedStr = fmt.Sprintf("%gx", g.simSpeed)
	}

	states := map[State]int{}
	for _, a := range g.arena.Agents() {
		states[a.State()]++
	}
	keys := make([]State, 0, len(states))
	for s := range states {
		keys = append(keys, s)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	stateLine := "states:"
	for _, s := range keys {
		stateLine += fmt.Sprintf(" %s=%d", s, states[s])
	}

	out := DetermineOutcome(g.arena.Agents(), g.arena.Target())
	lines := []string{
		fmt.Sprintf("SIM: %s  T=%d  P=pause  ,/. speed", speedStr, g.arena.Tick()),
		fmt.Sprintf("wave %d (%s)  alive %d/%d", g.wave, g.cfg.Profile, out.Survivors, out.Total),
		stateLine,
		fmt.Sprintf("target hp %d/%d", g.arena.Target().CurrentHealth(), g.arena.Target().MaxHealth()),
		"WASD move  RMB fire  LMB inspect",
		"N next wave  R restart  C copy report",
		"H hud  T thoughts  I raw view",
	}
	if g.statusTimer > 0 && g.status != "" {
		lines = append(lines, "> "+g.status)
	}
	return lines
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()

	const lineH = 15
	const charW = 7
	const padX = 6
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(g.offX + 6)
	by := float32(g.offY+g.gameHeight) - boxH - 6

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 10, G: 6, B: 6, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 100, G: 60, B: 60, A: 180}, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(bx)+padX, float64(by)+padY)
	op.LineSpacing = lineH
	op.ColorScale.ScaleWithColor(color.RGBA{R: 225, G: 215, B: 205, A: 255})
	text.Draw(screen, strings.Join(lines, "\n"), g.hudFace, op)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// GameWidth returns the arena width in pixels (excluding the log panel).
func (g *Game) GameWidth() int {
	return g.gameWidth
}
