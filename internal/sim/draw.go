package sim

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var (
	colGround     = color.RGBA{R: 34, G: 48, B: 34, A: 255}
	colWall       = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	colAgent      = color.RGBA{R: 220, G: 60, B: 40, A: 255}
	colTarget     = color.RGBA{R: 60, G: 120, B: 230, A: 255}
	colSpawn      = color.RGBA{R: 240, G: 220, B: 80, A: 200}
	colLeash      = color.RGBA{R: 240, G: 220, B: 80, A: 70}
	colProjectile = color.RGBA{R: 255, G: 200, B: 60, A: 255}
	colCountdown  = color.RGBA{R: 255, G: 80, B: 200, A: 230}
	colHUD        = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// Draw renders the scene and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colGround)
	snap := g.ts.Snapshot()

	// Walls.
	for _, o := range g.ts.World.Obstacles() {
		vector.DrawFilledRect(screen,
			float32(o.Min.X), float32(o.Min.Y),
			float32(o.Max.X-o.Min.X), float32(o.Max.Y-o.Min.Y),
			colWall, false)
	}

	// Leash ring and spawn marker.
	vector.StrokeCircle(screen, float32(snap.SpawnX), float32(snap.SpawnY),
		float32(snap.LeashRadius), 1.5, colLeash, true)
	ebitenutil.DrawLine(screen, snap.SpawnX-5, snap.SpawnY, snap.SpawnX+5, snap.SpawnY, colSpawn)
	ebitenutil.DrawLine(screen, snap.SpawnX, snap.SpawnY-5, snap.SpawnX, snap.SpawnY+5, colSpawn)

	// Movement target while steering.
	if g.ts.Loco.Moving() {
		t := g.ts.Loco.Target()
		vector.StrokeCircle(screen, float32(t.X), float32(t.Y), 4, 1,
			color.RGBA{R: 255, G: 255, B: 255, A: 90}, true)
	}

	// Agent with facing tick.
	vector.DrawFilledCircle(screen, float32(snap.AgentX), float32(snap.AgentY),
		agentRadius, colAgent, true)
	fx := snap.AgentX + float64(snap.Facing)*agentRadius*2
	ebitenutil.DrawLine(screen, snap.AgentX, snap.AgentY, fx, snap.AgentY,
		color.RGBA{R: 255, G: 255, B: 255, A: 160})

	// Target.
	vector.DrawFilledCircle(screen, float32(snap.TargetX), float32(snap.TargetY),
		targetRadius, colTarget, true)

	// Projectiles.
	if g.ts.Attack != nil {
		for _, p := range g.ts.Attack.Projectiles() {
			vector.DrawFilledCircle(screen, float32(p.Pos.X), float32(p.Pos.Y),
				2.5, colProjectile, true)
		}
	}

	// Teleport countdown bar above the agent.
	if snap.TeleportRemaining > 0 {
		frac := snap.TeleportRemaining / g.ts.Tuning.TeleportWarning
		const barW = 28.0
		x := snap.AgentX - barW/2
		y := snap.AgentY - agentRadius - 8
		vector.DrawFilledRect(screen, float32(x), float32(y),
			float32(barW*frac), 3, colCountdown, false)
	}

	g.drawHUD(screen, snap)
}

func (g *Game) drawHUD(screen *ebiten.Image, snap Snapshot) {
	face := basicfont.Face7x13

	line1 := fmt.Sprintf("T=%d  mode=%s", snap.Tick, snap.Mode)
	if snap.PreviousMode != "" {
		line1 += fmt.Sprintf(" (was %s)", snap.PreviousMode)
	}
	if snap.RecoveryAttempts > 0 {
		line1 += fmt.Sprintf("  recovery=%d", snap.RecoveryAttempts)
	}
	if snap.TeleportRemaining > 0 {
		line1 += fmt.Sprintf("  teleport in %.1fs", snap.TeleportRemaining)
	}
	if g.paused {
		line1 += "  [paused]"
	}
	text.Draw(screen, line1, face, 10, 18, colHUD)
	text.Draw(screen, "WASD/arrows: move target   space: pause   R: copy debug report",
		face, 10, 34, color.RGBA{R: 170, G: 170, B: 170, A: 255})
	if g.statusTicks > 0 && g.statusMsg != "" {
		text.Draw(screen, g.statusMsg, face, 10, 50, colSpawn)
	}
}
