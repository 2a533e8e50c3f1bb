package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning collects every scalar parameter of the pursuit core. Durations are
// in seconds, distances in pixels, speeds in pixels per second. Defaults live
// in DefaultTuning; a YAML file can override any subset of fields.
type Tuning struct {
	// Perception.
	DetectionRadius   float64 `yaml:"detection_radius" json:"detection_radius" jsonschema:"minimum=1"`
	PreferredDistance float64 `yaml:"preferred_distance" json:"preferred_distance" jsonschema:"minimum=1"`
	ComfortZone       float64 `yaml:"comfort_zone" json:"comfort_zone" jsonschema:"minimum=0"`

	// Reaction.
	ReactionDelay     float64 `yaml:"reaction_delay" json:"reaction_delay" jsonschema:"minimum=0"`
	ReactionThreshold float64 `yaml:"reaction_threshold" json:"reaction_threshold" jsonschema:"minimum=0"`

	// Tether.
	LeashRadius       float64 `yaml:"leash_radius" json:"leash_radius" jsonschema:"minimum=1"`
	SpawnArriveRadius float64 `yaml:"spawn_arrive_radius" json:"spawn_arrive_radius" jsonschema:"minimum=0"`

	// Locomotion.
	MoveSpeed      float64 `yaml:"move_speed" json:"move_speed" jsonschema:"minimum=1"`
	Acceleration   float64 `yaml:"acceleration" json:"acceleration" jsonschema:"minimum=1"`
	ArriveRadius   float64 `yaml:"arrive_radius" json:"arrive_radius" jsonschema:"minimum=0"`
	FacingDeadband float64 `yaml:"facing_deadband" json:"facing_deadband" jsonschema:"minimum=0"`

	// Stuck detection and recovery.
	StuckProbeRadius    float64 `yaml:"stuck_probe_radius" json:"stuck_probe_radius" jsonschema:"minimum=0.1"`
	StuckProbeDistance  float64 `yaml:"stuck_probe_distance" json:"stuck_probe_distance" jsonschema:"minimum=0.1"`
	RecoveryInterval    float64 `yaml:"recovery_interval" json:"recovery_interval" jsonschema:"minimum=0.01"`
	MaxRecoveryAttempts int     `yaml:"max_recovery_attempts" json:"max_recovery_attempts" jsonschema:"minimum=1"`
	EscalationStep      float64 `yaml:"escalation_step" json:"escalation_step" jsonschema:"minimum=0"`
	UnstickImpulse      float64 `yaml:"unstick_impulse" json:"unstick_impulse" jsonschema:"minimum=1"`
	UnstickJitterDeg    float64 `yaml:"unstick_jitter_deg" json:"unstick_jitter_deg" jsonschema:"minimum=0,maximum=90"`
	TeleportWarning     float64 `yaml:"teleport_warning" json:"teleport_warning" jsonschema:"minimum=0"`
	NoPathStuckAfter    float64 `yaml:"no_path_stuck_after" json:"no_path_stuck_after" jsonschema:"minimum=0.01"`
	PathProbeRadius     float64 `yaml:"path_probe_radius" json:"path_probe_radius" jsonschema:"minimum=0.1"`

	// Obstacle layers the agent collides with and senses.
	ObstacleMask uint32 `yaml:"obstacle_mask" json:"obstacle_mask"`

	// Attack collaborator.
	AttackRange         float64 `yaml:"attack_range" json:"attack_range" jsonschema:"minimum=1"`
	AttackCooldown      float64 `yaml:"attack_cooldown" json:"attack_cooldown" jsonschema:"minimum=0.01"`
	DoubleShotChance    float64 `yaml:"double_shot_chance" json:"double_shot_chance" jsonschema:"minimum=0,maximum=1"`
	DoubleShotDelay     float64 `yaml:"double_shot_delay" json:"double_shot_delay" jsonschema:"minimum=0"`
	ProjectileSpeed     float64 `yaml:"projectile_speed" json:"projectile_speed" jsonschema:"minimum=1"`
	ProjectileHitRadius float64 `yaml:"projectile_hit_radius" json:"projectile_hit_radius" jsonschema:"minimum=0.1"`
}

// DefaultTuning returns the baseline parameter set used by the viewer and
// the headless scenarios.
func DefaultTuning() Tuning {
	return Tuning{
		DetectionRadius:   300,
		PreferredDistance: 140,
		ComfortZone:       30,

		ReactionDelay:     0.25,
		ReactionThreshold: 24,

		LeashRadius:       420,
		SpawnArriveRadius: 12,

		MoveSpeed:      90,
		Acceleration:   360,
		ArriveRadius:   6,
		FacingDeadband: 5,

		StuckProbeRadius:    4,
		StuckProbeDistance:  10,
		RecoveryInterval:    0.4,
		MaxRecoveryAttempts: 5,
		EscalationStep:      0.5,
		UnstickImpulse:      160,
		UnstickJitterDeg:    15,
		TeleportWarning:     1.2,
		NoPathStuckAfter:    2.5,
		PathProbeRadius:     8,

		ObstacleMask: LayerWall,

		AttackRange:         260,
		AttackCooldown:      1.5,
		DoubleShotChance:    0.35,
		DoubleShotDelay:     0.3,
		ProjectileSpeed:     340,
		ProjectileHitRadius: 10,
	}
}

// LoadTuning reads a YAML tuning file over the defaults. An empty path
// returns the defaults unchanged.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning file %s: %w", path, err)
	}
	return t, nil
}

// Validate rejects parameter combinations the core cannot run with.
func (t Tuning) Validate() error {
	switch {
	case t.DetectionRadius <= 0:
		return fmt.Errorf("detection_radius must be positive, got %g", t.DetectionRadius)
	case t.PreferredDistance <= 0:
		return fmt.Errorf("preferred_distance must be positive, got %g", t.PreferredDistance)
	case t.ComfortZone < 0:
		return fmt.Errorf("comfort_zone must not be negative, got %g", t.ComfortZone)
	case t.ComfortZone >= t.PreferredDistance:
		return fmt.Errorf("comfort_zone %g must be smaller than preferred_distance %g",
			t.ComfortZone, t.PreferredDistance)
	case t.LeashRadius <= t.PreferredDistance:
		return fmt.Errorf("leash_radius %g must exceed preferred_distance %g",
			t.LeashRadius, t.PreferredDistance)
	case t.MoveSpeed <= 0:
		return fmt.Errorf("move_speed must be positive, got %g", t.MoveSpeed)
	case t.Acceleration <= 0:
		return fmt.Errorf("acceleration must be positive, got %g", t.Acceleration)
	case t.RecoveryInterval <= 0:
		return fmt.Errorf("recovery_interval must be positive, got %g", t.RecoveryInterval)
	case t.MaxRecoveryAttempts < 1:
		return fmt.Errorf("max_recovery_attempts must be at least 1, got %d", t.MaxRecoveryAttempts)
	case t.NoPathStuckAfter <= 0:
		return fmt.Errorf("no_path_stuck_after must be positive, got %g", t.NoPathStuckAfter)
	case t.UnstickJitterDeg < 0 || t.UnstickJitterDeg > 90:
		return fmt.Errorf("unstick_jitter_deg must be in [0,90], got %g", t.UnstickJitterDeg)
	case t.DoubleShotChance < 0 || t.DoubleShotChance > 1:
		return fmt.Errorf("double_shot_chance must be in [0,1], got %g", t.DoubleShotChance)
	case t.ObstacleMask == 0:
		return fmt.Errorf("obstacle_mask must select at least one layer")
	}
	return nil
}
