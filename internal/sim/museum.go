package sim

import (
	"log/slog"
	"math/rand"
)

// NewMuseumSession lays out the artifact-collection game: a walled hall
// larger than the screen, random blocks, artifacts to collect, a safe
// win zone at the centre and ghosts spawned away from the player.
func NewMuseumSession(cfg MuseumConfig, seed int64, logger *slog.Logger) *Session {
	s := NewSession(museumOptions(cfg, seed, logger)...)
	s.build = func(seed int64) *Session {
		return NewSession(museumOptions(cfg, seed, logger)...)
	}
	return s
}

func museumOptions(cfg MuseumConfig, seed int64, logger *slog.Logger) []Option {
	if logger == nil {
		logger = slog.Default()
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- layout randomness

	b := Bounds{
		Right:         cfg.ViewportW * cfg.WorldScale,
		Bottom:        cfg.ViewportH * cfg.WorldScale,
		WallThickness: cfg.WallThickness,
	}
	center := b.Center()
	zone := RectCentered(center, cfg.WinZoneSize, cfg.WinZoneSize)
	// Blocks leave room around the win zone so it can always be entered.
	keepClear := zone.Inflate(2*cfg.Player.Size, 2*cfg.Player.Size)

	opts := []Option{
		WithScenario(ScenarioMuseum),
		WithSeed(seed),
		WithLogger(logger),
		WithBounds(b),
		WithBorderWalls(),
		WithWinZone(zone),
		WithViewport(cfg.ViewportW, cfg.ViewportH, cfg.CameraSmoothing),
		WithRules(Rules{
			StartDelay:    cfg.StartDelay,
			Lives:         cfg.Lives,
			CraftToWin:    true,
			RemoveCatcher: true,
			ClearOnWin:    true,
		}),
	}

	obstacles := b.BorderWalls()
	for i := 0; i < cfg.Blocks; i++ {
		for try := 0; try < cfg.SpawnAttempts; try++ {
			c := Vec2{
				X: uniform(rng, b.Left+cfg.BlockEdge, b.Right-cfg.BlockEdge),
				Y: uniform(rng, b.Top+cfg.BlockEdge, b.Bottom-cfg.BlockEdge),
			}
			r := RectCentered(c, uniform(rng, cfg.BlockMin, cfg.BlockMax), uniform(rng, cfg.BlockMin, cfg.BlockMax))
			if r.Intersects(keepClear) {
				continue
			}
			obstacles = append(obstacles, Obstacle{r})
			opts = append(opts, WithObstacle(r.X, r.Y, r.W, r.H))
			break
		}
	}

	opts = append(opts, WithPlayer(center, cfg.Player))

	itemArea := b.Inset(cfg.ArtifactMargin - cfg.ArtifactSize/2)
	for i := 0; i < cfg.Artifacts; i++ {
		req := SpawnRequest{Bounds: itemArea, Size: cfg.ArtifactSize, Attempts: cfg.ArtifactAttempts}
		p, ok := sampleSpawn(rng, req, obstacles, req.Attempts, false)
		if !ok {
			logger.Warn("could not place artifact", "index", i, "attempts", cfg.ArtifactAttempts)
			continue
		}
		opts = append(opts, WithCollectible(RectCentered(p, cfg.ArtifactSize, cfg.ArtifactSize)))
	}

	for i := 0; i < cfg.Ghosts; i++ {
		req := SpawnRequest{
			Bounds:   b,
			Size:     cfg.Ghost.Size,
			Avoid:    center,
			MinDist:  cfg.GhostSpawnDistance,
			Attempts: cfg.SpawnAttempts,
			Blockers: []Rect{zone},
		}
		p, err := FindSpawn(rng, req, obstacles)
		if err != nil {
			logger.Error("ghost spawn failed, using area centre", "ghost", i, "err", err)
			p = b.Center()
		}
		opts = append(opts, WithRoamer(i, p, cfg.Ghost))
	}
	return opts
}
