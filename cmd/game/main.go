package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Pursuit-Sense/internal/sim"
	"github.com/Garsondee/Pursuit-Sense/pkg/logger"
)

func main() {
	logger.Init()

	ebiten.SetWindowTitle("Pursuit Sense")
	ebiten.SetWindowSize(sim.ViewerWidth, sim.ViewerHeight)

	g, err := sim.NewGame()
	if err != nil {
		logger.Log.WithError(err).Fatal("assemble game")
	}
	if err := ebiten.RunGame(g); err != nil {
		logger.Log.WithError(err).Fatal("run game")
	}
}
