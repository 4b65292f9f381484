package sim

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// AgentTuning holds every number that shapes one agent variant. Speeds
// are in world units per second; Smoothing and PauseDamping are per 60Hz
// tick and rescaled to the measured step.
type AgentTuning struct {
	Size        float64 `yaml:"size"`
	HitboxInset float64 `yaml:"hitbox_inset"`

	Speed       float64 `yaml:"speed"`
	SpeedJitter float64 `yaml:"speed_jitter"`
	Smoothing   float64 `yaml:"smoothing"`

	// Detection. Guards use DetectionRadius (strict) and territory;
	// roamers use line of sight within [MinChaseDistance, MaxChaseDistance].
	DetectionRadius  float64 `yaml:"detection_radius"`
	MinChaseDistance float64 `yaml:"min_chase_distance"`
	MaxChaseDistance float64 `yaml:"max_chase_distance"`
	LOSStep          float64 `yaml:"los_step"`
	TagRange         float64 `yaml:"tag_range"`

	ReactionMin float64 `yaml:"reaction_min"`
	ReactionMax float64 `yaml:"reaction_max"`

	// Patrol / wander rhythm.
	IntervalMin  float64 `yaml:"interval_min"`
	IntervalMax  float64 `yaml:"interval_max"`
	PauseChance  float64 `yaml:"pause_chance"`
	PauseMin     float64 `yaml:"pause_min"`
	PauseMax     float64 `yaml:"pause_max"`
	PauseDamping float64 `yaml:"pause_damping"`

	// Chase.
	ChaseMultiplier           float64 `yaml:"chase_multiplier"`
	TerritoryChaseMultiplier  float64 `yaml:"territory_chase_multiplier"`
	PredictionFactor          float64 `yaml:"prediction_factor"`
	TerritoryPredictionFactor float64 `yaml:"territory_prediction_factor"`
	TerritoryAcceleration     float64 `yaml:"territory_acceleration"`
	AccelRiseRate             float64 `yaml:"accel_rise_rate"`
	AccelFallRate             float64 `yaml:"accel_fall_rate"`
	FarInterceptBoost         float64 `yaml:"far_intercept_boost"`

	ReturnEpsilon float64 `yaml:"return_epsilon"`
	// ReturnGiveUp ends a return that has gained no ground toward spawn
	// for this many seconds and resumes patrolling where the agent stands.
	// 0 keeps returning until spawn is reached.
	ReturnGiveUp float64 `yaml:"return_give_up"`

	AlertDuration float64 `yaml:"alert_duration"`
	AlertCooldown float64 `yaml:"alert_cooldown"`
}

// PlayerTuning configures the player controller.
type PlayerTuning struct {
	Size        float64 `yaml:"size"`
	HitboxInset float64 `yaml:"hitbox_inset"`
	Speed       float64 `yaml:"speed"`
	// Smoothing > 0 eases velocity toward the input (per 60Hz tick).
	Smoothing        float64 `yaml:"smoothing"`
	SprintMultiplier float64 `yaml:"sprint_multiplier"`
	StaminaMax       float64 `yaml:"stamina_max"`
	StaminaDrain     float64 `yaml:"stamina_drain"`
	StaminaRegen     float64 `yaml:"stamina_regen"`
}

// MuseumConfig lays out the artifact-collection game.
type MuseumConfig struct {
	ViewportW     float64 `yaml:"viewport_w"`
	ViewportH     float64 `yaml:"viewport_h"`
	WorldScale    float64 `yaml:"world_scale"`
	WallThickness float64 `yaml:"wall_thickness"`

	Blocks    int     `yaml:"blocks"`
	BlockMin  float64 `yaml:"block_min"`
	BlockMax  float64 `yaml:"block_max"`
	BlockEdge float64 `yaml:"block_edge"`

	Artifacts        int     `yaml:"artifacts"`
	ArtifactSize     float64 `yaml:"artifact_size"`
	ArtifactAttempts int     `yaml:"artifact_attempts"`
	ArtifactMargin   float64 `yaml:"artifact_margin"`

	Ghosts             int     `yaml:"ghosts"`
	GhostSpawnDistance float64 `yaml:"ghost_spawn_distance"`
	SpawnAttempts      int     `yaml:"spawn_attempts"`

	WinZoneSize     float64 `yaml:"win_zone_size"`
	StartDelay      float64 `yaml:"start_delay"`
	Lives           int     `yaml:"lives"`
	CameraSmoothing float64 `yaml:"camera_smoothing"`

	Player PlayerTuning `yaml:"player"`
	Ghost  AgentTuning  `yaml:"ghost"`
}

// PatinteroConfig lays out the line-guard game.
type PatinteroConfig struct {
	ViewportW float64 `yaml:"viewport_w"`
	ViewportH float64 `yaml:"viewport_h"`

	MarginXFrac     float64 `yaml:"margin_x_frac"`
	MarginY         float64 `yaml:"margin_y"`
	Lines           int     `yaml:"lines"`
	SpawnBelow      float64 `yaml:"spawn_below"`
	BottomClearance float64 `yaml:"bottom_clearance"`
	GoalTolerance   float64 `yaml:"goal_tolerance"`
	GuardEdgeMargin float64 `yaml:"guard_edge_margin"`
	PhaseOffsetMax  float64 `yaml:"phase_offset_max"`
	VerticalGuard   bool    `yaml:"vertical_guard"`
	// VerticalSpan is "field" (grid top down to the line below the
	// middle row) or "lane" (the middle row only).
	VerticalSpan    string  `yaml:"vertical_span"`
	VerticalMargin  float64 `yaml:"vertical_margin"`
	TerritoryHalf   float64 `yaml:"territory_half_width"`
	LineTerritory   bool    `yaml:"line_territory"`
	CenterTerritory bool    `yaml:"center_territory"`
	StartDelay      float64 `yaml:"start_delay"`
	Lives           int     `yaml:"lives"`
	CameraSmoothing float64 `yaml:"camera_smoothing"`

	Player PlayerTuning `yaml:"player"`
	Guard  AgentTuning  `yaml:"guard"`
}

// Config is the full per-scenario tuning set.
type Config struct {
	Museum    MuseumConfig    `yaml:"museum"`
	Patintero PatinteroConfig `yaml:"patintero"`
}

// DefaultConfig decodes the embedded defaults.
func DefaultConfig() Config {
	var c Config
	if err := yaml.Unmarshal(defaultsYAML, &c); err != nil {
		panic(fmt.Sprintf("sim: embedded defaults.yaml is invalid: %v", err))
	}
	return c
}

// LoadConfig overlays the YAML file at path on the defaults. An empty
// path returns the defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// ErrInvalidTuning marks a config value that cannot drive the simulation.
var ErrInvalidTuning = errors.New("invalid tuning")

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Museum.Validate(); err != nil {
		return fmt.Errorf("museum: %w", err)
	}
	if err := c.Patintero.Validate(); err != nil {
		return fmt.Errorf("patintero: %w", err)
	}
	return nil
}

func (m MuseumConfig) Validate() error {
	switch {
	case m.ViewportW <= 0 || m.ViewportH <= 0:
		return fmt.Errorf("%w: viewport must be positive", ErrInvalidTuning)
	case m.WorldScale <= 0:
		return fmt.Errorf("%w: world_scale must be positive", ErrInvalidTuning)
	case m.BlockMin > m.BlockMax:
		return fmt.Errorf("%w: block_min > block_max", ErrInvalidTuning)
	case m.Blocks < 0 || m.Artifacts < 0 || m.Ghosts < 0:
		return fmt.Errorf("%w: counts must be >= 0", ErrInvalidTuning)
	case m.Lives < 1:
		return fmt.Errorf("%w: lives must be >= 1", ErrInvalidTuning)
	}
	if err := m.Player.Validate(); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	if err := m.Ghost.Validate(); err != nil {
		return fmt.Errorf("ghost: %w", err)
	}
	return nil
}

func (p PatinteroConfig) Validate() error {
	switch {
	case p.ViewportW <= 0 || p.ViewportH <= 0:
		return fmt.Errorf("%w: viewport must be positive", ErrInvalidTuning)
	case p.MarginXFrac < 0 || p.MarginXFrac >= 0.5:
		return fmt.Errorf("%w: margin_x_frac must be in [0, 0.5)", ErrInvalidTuning)
	case p.Lines < 2:
		return fmt.Errorf("%w: lines must be >= 2", ErrInvalidTuning)
	case p.Lives < 1:
		return fmt.Errorf("%w: lives must be >= 1", ErrInvalidTuning)
	case p.TerritoryHalf < 0:
		return fmt.Errorf("%w: territory_half_width must be >= 0", ErrInvalidTuning)
	case p.VerticalSpan != SpanField && p.VerticalSpan != SpanLane:
		return fmt.Errorf("%w: vertical_span must be %q or %q", ErrInvalidTuning, SpanField, SpanLane)
	case p.VerticalMargin < 0:
		return fmt.Errorf("%w: vertical_margin must be >= 0", ErrInvalidTuning)
	}
	if err := p.Player.Validate(); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	if err := p.Guard.Validate(); err != nil {
		return fmt.Errorf("guard: %w", err)
	}
	return nil
}

func (t PlayerTuning) Validate() error {
	switch {
	case t.Size <= 0 || t.HitboxInset < 0 || t.HitboxInset >= t.Size:
		return fmt.Errorf("%w: size/hitbox_inset", ErrInvalidTuning)
	case t.Speed < 0:
		return fmt.Errorf("%w: speed must be >= 0", ErrInvalidTuning)
	case t.Smoothing < 0 || t.Smoothing > 1:
		return fmt.Errorf("%w: smoothing must be in [0,1]", ErrInvalidTuning)
	case t.SprintMultiplier < 1 && t.SprintMultiplier != 0:
		return fmt.Errorf("%w: sprint_multiplier must be >= 1 (or 0 to disable)", ErrInvalidTuning)
	}
	return nil
}

func (t AgentTuning) Validate() error {
	switch {
	case t.Size <= 0 || t.HitboxInset < 0 || t.HitboxInset >= t.Size:
		return fmt.Errorf("%w: size/hitbox_inset", ErrInvalidTuning)
	case t.Speed < 0:
		return fmt.Errorf("%w: speed must be >= 0", ErrInvalidTuning)
	case t.DetectionRadius < 0 || t.TagRange < 0:
		return fmt.Errorf("%w: radii must be >= 0", ErrInvalidTuning)
	case t.MinChaseDistance > t.MaxChaseDistance:
		return fmt.Errorf("%w: min_chase_distance > max_chase_distance", ErrInvalidTuning)
	case t.ReactionMin > t.ReactionMax:
		return fmt.Errorf("%w: reaction_min > reaction_max", ErrInvalidTuning)
	case t.IntervalMin > t.IntervalMax || t.PauseMin > t.PauseMax:
		return fmt.Errorf("%w: interval/pause ranges inverted", ErrInvalidTuning)
	case t.PauseChance < 0 || t.PauseChance > 1:
		return fmt.Errorf("%w: pause_chance must be in [0,1]", ErrInvalidTuning)
	case t.Smoothing <= 0 || t.Smoothing > 1:
		return fmt.Errorf("%w: smoothing must be in (0,1]", ErrInvalidTuning)
	case t.PauseDamping < 0 || t.PauseDamping > 1:
		return fmt.Errorf("%w: pause_damping must be in [0,1]", ErrInvalidTuning)
	case t.ReturnGiveUp < 0:
		return fmt.Errorf("%w: return_give_up must be >= 0", ErrInvalidTuning)
	}
	return nil
}
