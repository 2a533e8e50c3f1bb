package sim

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Pursuit-Sense/pkg/logger"
)

// Viewer screen dimensions.
const (
	ViewerWidth  = 1280
	ViewerHeight = 720

	targetDriveSpeed = 180.0 // player-controlled target, pixels per second
)

// Game is the interactive viewer: one pursuit sim with a keyboard-driven
// target. Controls: WASD/arrows move the target, space pauses, R copies a
// debug report to the clipboard.
type Game struct {
	ts     *TestSim
	paused bool

	prevKeys map[ebiten.Key]bool

	statusMsg   string
	statusTicks int
}

// NewGame assembles the demo scene: a few wall clusters, a pocket the agent
// can wedge itself into, and the target parked outside detection range.
func NewGame() (*Game, error) {
	ts, err := NewTestSim(
		WithWorldSize(ViewerWidth, ViewerHeight),
		WithSeed(1),
		WithVerbose(false),
		WithAgentAt(320, 360),
		WithTargetAt(1040, 360),
		WithAttack(),
		// Central block with a gap, plus a dead-end pocket near spawn.
		WithObstacle(600, 120, 60, 200),
		WithObstacle(600, 420, 60, 200),
		WithObstacle(160, 180, 220, 40),
		WithObstacle(160, 220, 40, 120),
		WithObstacle(340, 220, 40, 120),
		WithObstacle(920, 560, 240, 40),
	)
	if err != nil {
		return nil, err
	}
	return &Game{ts: ts, prevKeys: make(map[ebiten.Key]bool)}, nil
}

// Update advances one frame: input, then one fixed sim tick unless paused.
func (g *Game) Update() error {
	g.handleInput()
	if !g.paused {
		g.ts.Tick()
	}
	if g.statusTicks > 0 {
		g.statusTicks--
	}
	return nil
}

func (g *Game) handleInput() {
	if g.keyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if g.keyJustPressed(ebiten.KeyR) {
		g.copyReport()
	}

	if g.paused {
		return
	}

	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += 1
	}
	if dx == 0 && dy == 0 {
		return
	}

	step := Vec2{dx, dy}.Normalized().Scale(targetDriveSpeed * TickDT)
	p := g.ts.Target.Pos.Add(step)
	// Keep the target on the playfield; walls don't block it (it is the
	// player's puppet, not a simulated body).
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.X > g.ts.World.Width {
		p.X = g.ts.World.Width
	}
	if p.Y > g.ts.World.Height {
		p.Y = g.ts.World.Height
	}
	g.ts.Target.Pos = p
}

func (g *Game) keyJustPressed(k ebiten.Key) bool {
	pressed := ebiten.IsKeyPressed(k)
	was := g.prevKeys[k]
	g.prevKeys[k] = pressed
	return pressed && !was
}

func (g *Game) copyReport() {
	report := g.ts.DebugReport(300)
	if err := clipboard.WriteAll(report); err != nil {
		logger.Log.WithError(err).Warn("copy debug report to clipboard")
		g.setStatus("clipboard copy failed")
		return
	}
	g.setStatus(fmt.Sprintf("debug report copied (%d bytes)", len(report)))
}

func (g *Game) setStatus(msg string) {
	g.statusMsg = msg
	g.statusTicks = 180
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ViewerWidth, ViewerHeight
}
