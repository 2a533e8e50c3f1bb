// Command live runs a headless pursuit simulation in real time and
// broadcasts per-tick JSON snapshots to websocket subscribers on /watch.
package main

import (
	"flag"
	"math"
	"net/http"
	"time"

	"github.com/Garsondee/Pursuit-Sense/internal/sim"
	"github.com/Garsondee/Pursuit-Sense/internal/stream"
	"github.com/Garsondee/Pursuit-Sense/pkg/logger"
)

func main() {
	var addr string
	var seed int64
	var configPath string

	flag.StringVar(&addr, "addr", ":8090", "listen address")
	flag.Int64Var(&seed, "seed", 1, "RNG seed")
	flag.StringVar(&configPath, "config", "", "optional tuning YAML file")
	flag.Parse()

	logger.Init()

	tuning := sim.DefaultTuning()
	if configPath != "" {
		t, err := sim.LoadTuning(configPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("load tuning")
		}
		tuning = t
	}

	center := sim.Vec2{X: 640, Y: 360}
	ts, err := sim.NewTestSim(
		sim.WithSeed(seed),
		sim.WithTuning(func(t *sim.Tuning) { *t = tuning }),
		sim.WithAgentAt(center.X, center.Y),
		sim.WithTargetAt(center.X+200, center.Y),
		sim.WithAttack(),
		sim.WithObstacle(880, 200, 50, 320),
		sim.WithTargetScript(func(t *sim.Target, tick int, dt float64) {
			angle := float64(tick) * dt * 0.7
			radius := 140 + 120*math.Sin(float64(tick)*dt*0.3)
			t.Pos = sim.Vec2{
				X: center.X + radius*math.Cos(angle),
				Y: center.Y + radius*math.Sin(angle),
			}
		}),
	)
	if err != nil {
		logger.Log.WithError(err).Fatal("assemble sim")
	}

	hub := stream.NewHub()
	http.Handle("/watch", hub)

	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()
		for range ticker.C {
			ts.Tick()
			if hub.SubscriberCount() > 0 {
				hub.Broadcast(ts.Snapshot())
			}
		}
	}()

	logger.Log.WithField("addr", addr).Info("live feed listening")
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Log.WithError(err).Fatal("listen")
	}
}
