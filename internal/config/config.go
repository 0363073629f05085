package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Boundary policies for balls reaching the edge of the felt.
const (
	BoundaryReflect = "reflect"
	BoundaryNone    = "none"
)

// Incidence modes for the power split angle.
const (
	IncidenceHeading       = "heading"
	IncidenceLineOfCenters = "line_of_centers"
)

type Config struct {
	// Environment
	Environment string

	// Database (empty disables the shot log)
	DatabaseURL string

	// Redis (empty disables snapshot caching)
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Scene loop
	SceneID            string
	SimHz              int
	RenderHz           int
	MaxCatchUpSteps    int
	CommandQueueSize   int
	RandomSeed         int64
	SnapshotIntervalMs int
	SnapshotTTLSeconds int

	// Security
	JWTSecret          string
	ControlTokenTTLMin int
	AdminKeyHash       string

	// Physics tuning
	PhysicsConfigPath string
	Physics           PhysicsConfig
}

// PhysicsConfig holds the per-frame constants of the pool table.
// Distances are in table units, power is displacement per frame.
type PhysicsConfig struct {
	BallRadius      float64 `yaml:"ball_radius"`
	FrictionFactor  float64 `yaml:"friction_factor"`
	StopThreshold   float64 `yaml:"stop_threshold"`
	CooldownFrames  int     `yaml:"cooldown_frames"`
	ShotPower       float64 `yaml:"shot_power"`
	TableHalfLength float64 `yaml:"table_half_length"`
	TableHalfWidth  float64 `yaml:"table_half_width"`
	Boundary        string  `yaml:"boundary"`
	CushionDamping  float64 `yaml:"cushion_damping"`
	Incidence       string  `yaml:"incidence"`
}

// DefaultPhysics returns the tuning the scene was built around (60 steps per second).
func DefaultPhysics() PhysicsConfig {
	return PhysicsConfig{
		BallRadius:      0.186,
		FrictionFactor:  0.95,
		StopThreshold:   0.005,
		CooldownFrames:  5,
		ShotPower:       0.4,
		TableHalfLength: 3.85, // felt is 7.7 x 3.7
		TableHalfWidth:  1.85,
		Boundary:        BoundaryReflect,
		CushionDamping:  0.8,
		Incidence:       IncidenceHeading,
	}
}

// Validate reports the first out-of-range physics value.
func (p PhysicsConfig) Validate() error {
	switch {
	case p.BallRadius <= 0:
		return fmt.Errorf("%w: ball_radius must be positive", ErrInvalidConfig)
	case p.FrictionFactor <= 0 || p.FrictionFactor >= 1:
		return fmt.Errorf("%w: friction_factor must be in (0, 1)", ErrInvalidConfig)
	case p.StopThreshold <= 0:
		return fmt.Errorf("%w: stop_threshold must be positive", ErrInvalidConfig)
	case p.CooldownFrames < 0:
		return fmt.Errorf("%w: cooldown_frames must not be negative", ErrInvalidConfig)
	case p.ShotPower < 0:
		return fmt.Errorf("%w: shot_power must not be negative", ErrInvalidConfig)
	case p.TableHalfLength <= p.BallRadius || p.TableHalfWidth <= p.BallRadius:
		return fmt.Errorf("%w: table must be larger than a ball", ErrInvalidConfig)
	case p.CushionDamping < 0 || p.CushionDamping > 1:
		return fmt.Errorf("%w: cushion_damping must be in [0, 1]", ErrInvalidConfig)
	}
	if p.Boundary != BoundaryReflect && p.Boundary != BoundaryNone {
		return fmt.Errorf("%w: unknown boundary policy %q", ErrInvalidConfig, p.Boundary)
	}
	if p.Incidence != IncidenceHeading && p.Incidence != IncidenceLineOfCenters {
		return fmt.Errorf("%w: unknown incidence mode %q", ErrInvalidConfig, p.Incidence)
	}
	return nil
}

// LoadPhysics reads physics tuning from a YAML file on top of the defaults.
// A missing file yields the defaults.
func LoadPhysics(path string) (PhysicsConfig, error) {
	cfg := DefaultPhysics()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading physics config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing physics config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("physics config %s: %w", path, err)
	}
	return cfg, nil
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Scene loop
		SceneID:            getEnv("SCENE_ID", "main"),
		SimHz:              getEnvInt("SIM_HZ", 60),
		RenderHz:           getEnvInt("RENDER_HZ", 60),
		MaxCatchUpSteps:    getEnvInt("MAX_CATCH_UP_STEPS", 5),
		CommandQueueSize:   getEnvInt("COMMAND_QUEUE_SIZE", 64),
		RandomSeed:         int64(getEnvInt("RANDOM_SEED", 1)),
		SnapshotIntervalMs: getEnvInt("SNAPSHOT_INTERVAL_MS", 500),
		SnapshotTTLSeconds: getEnvInt("SNAPSHOT_TTL_SECONDS", 3600),

		// Security
		JWTSecret:          getEnv("JWT_SECRET", "change-me-in-production"),
		ControlTokenTTLMin: getEnvInt("CONTROL_TOKEN_TTL_MINUTES", 60),
		AdminKeyHash:       getEnv("ADMIN_KEY_HASH", ""),

		// Physics
		PhysicsConfigPath: getEnv("PHYSICS_CONFIG", "physics.yaml"),
	}

	if cfg.SimHz <= 0 || cfg.RenderHz <= 0 {
		return nil, fmt.Errorf("%w: SIM_HZ and RENDER_HZ must be positive", ErrInvalidConfig)
	}
	if cfg.MaxCatchUpSteps <= 0 {
		return nil, fmt.Errorf("%w: MAX_CATCH_UP_STEPS must be positive", ErrInvalidConfig)
	}
	if cfg.CommandQueueSize <= 0 {
		return nil, fmt.Errorf("%w: COMMAND_QUEUE_SIZE must be positive", ErrInvalidConfig)
	}

	physics, err := LoadPhysics(cfg.PhysicsConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.Physics = physics

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
