package game

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// TowerStats are the fixed properties of one tower kind.
type TowerStats struct {
	Kind        TowerKind     `yaml:"kind"`
	Period      time.Duration `yaml:"period"`
	BulletSpeed float32       `yaml:"bullet_speed"`
	Cost        uint32        `yaml:"cost"`
	Model       string        `yaml:"model"`
}

// WaveConfig lays out the targets spawned when a session starts. Target i
// is placed at Origin + i*Spacing.
type WaveConfig struct {
	Count   int        `yaml:"count"`
	Origin  mgl32.Vec3 `yaml:"origin"`
	Spacing mgl32.Vec3 `yaml:"spacing"`
	Speed   float32    `yaml:"speed"`
	Health  int        `yaml:"health"`
}

// BaseGrid lays out the tower bases. Base (i, j) is placed at
// Origin + i*ColumnStep + j*RowStep.
type BaseGrid struct {
	Columns    int        `yaml:"columns"`
	Rows       int        `yaml:"rows"`
	Origin     mgl32.Vec3 `yaml:"origin"`
	ColumnStep mgl32.Vec3 `yaml:"column_step"`
	RowStep    mgl32.Vec3 `yaml:"row_step"`
}

type Config struct {
	Path                []mgl32.Vec2  `yaml:"path"`
	Wave                WaveConfig    `yaml:"wave"`
	Bases               BaseGrid      `yaml:"bases"`
	StartingMoney       uint32        `yaml:"starting_money"`
	StartingHealth      int           `yaml:"starting_health"`
	BulletLifetime      time.Duration `yaml:"bullet_lifetime"`
	BulletOffset        mgl32.Vec3    `yaml:"bullet_offset"`
	BulletDamage        int           `yaml:"bullet_damage"`
	KillReward          uint32        `yaml:"kill_reward"`
	ColliderHalfExtents mgl32.Vec3    `yaml:"collider_half_extents"`
	Towers              []TowerStats  `yaml:"towers"`
}

// DefaultConfig reproduces the reference scene.
func DefaultConfig() Config {
	return Config{
		Path: []mgl32.Vec2{{6, 2}, {6, 6}, {9, 9}},
		Wave: WaveConfig{
			Count:   24,
			Origin:  mgl32.Vec3{0, 0.4, 2.5},
			Spacing: mgl32.Vec3{-2, 0, 0},
			Speed:   0.45,
			Health:  3,
		},
		Bases: BaseGrid{
			Columns:    10,
			Rows:       2,
			Origin:     mgl32.Vec3{0, 0.8, 0},
			ColumnStep: mgl32.Vec3{2, 0, 0},
			RowStep:    mgl32.Vec3{1, 0, 5},
		},
		StartingMoney:       100,
		StartingHealth:      10,
		BulletLifetime:      10 * time.Second,
		BulletOffset:        mgl32.Vec3{0, 0.2, 0},
		BulletDamage:        1,
		KillReward:          10,
		ColliderHalfExtents: mgl32.Vec3{0.2, 0.2, 0.2},
		Towers: []TowerStats{
			{Kind: Tomato, Period: 500 * time.Millisecond, BulletSpeed: 3.5, Cost: 50, Model: "Tomato"},
			{Kind: Potato, Period: 700 * time.Millisecond, BulletSpeed: 6.5, Cost: 80, Model: "Potato"},
			{Kind: Cabbage, Period: 800 * time.Millisecond, BulletSpeed: 8.5, Cost: 110, Model: "Cabbage"},
		},
	}
}

// LoadConfig decodes YAML from r on top of DefaultConfig. Keys absent from
// the document keep their default values.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile is LoadConfig on a file.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := LoadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Path) == 0 {
		return ErrEmptyPath
	}
	if c.StartingHealth <= 0 {
		return fmt.Errorf("starting_health %d: %w", c.StartingHealth, ErrInvalidHealth)
	}
	if c.BulletLifetime <= 0 {
		return ErrInvalidLifetime
	}
	if c.Wave.Count < 0 || (c.Wave.Count > 0 && c.Wave.Health <= 0) || c.Wave.Speed < 0 {
		return fmt.Errorf("%w: count %d, health %d, speed %g",
			ErrInvalidWave, c.Wave.Count, c.Wave.Health, c.Wave.Speed)
	}

	seen := make(map[TowerKind]bool, len(c.Towers))
	for _, stats := range c.Towers {
		if !stats.Kind.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidTowerKind, int(stats.Kind))
		}
		if stats.Period <= 0 || stats.BulletSpeed <= 0 {
			return fmt.Errorf("%s: %w", stats.Kind, ErrInvalidTowerStats)
		}
		seen[stats.Kind] = true
	}
	for _, kind := range TowerKinds {
		if !seen[kind] {
			return fmt.Errorf("%s: %w", kind, ErrMissingTowerKind)
		}
	}
	return nil
}

// Tower returns the stats for kind. The last entry wins if a kind is listed
// twice.
func (c Config) Tower(kind TowerKind) (TowerStats, bool) {
	var (
		found TowerStats
		ok    bool
	)
	for _, stats := range c.Towers {
		if stats.Kind == kind {
			found, ok = stats, true
		}
	}
	return found, ok
}
