package config

import (
	"time"
	"unicode"

	"git.lost.host/meutraa/chorus/internal/game"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

type Config struct {
	Directory   string
	Store       string
	StoreFormat string
	TimeLimit   time.Duration
	SpawnChance int
	Speed       int
	FPS         float64
	Keys        []rune
	Seed        int64
	Volume      float64
	Mute        bool
	LogFile     string
	LogLevel    log.Level
}

// Geometry is the default play-field moving at the configured speed.
func (c *Config) Geometry() game.Geometry {
	g := game.DefaultGeometry
	g.Speed = c.Speed
	return g
}

// FramePeriod is the time between two frames.
func (c *Config) FramePeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.FPS)
}

// Load parses the command line, args excluding the program name.
func Load(args []string) (*Config, error) {
	app := kingpin.New("chorus", "Strike the falling notes as they cross the line.")
	app.Version(Version)

	var (
		directory   = app.Arg("directory", "Song directory").Default(".").ExistingDir()
		store       = app.Flag("store", "High score file").Default("scores.db").Short('s').String()
		storeFormat = app.Flag("store-format", "High score file format").Default("sqlite").Enum("sqlite", "json")
		timeLimit   = app.Flag("time-limit", "Length of a session").Default("2m").Short('t').Duration()
		spawnChance = app.Flag("spawn-chance", "One note per this many frames, on average").Default("50").Int()
		speed       = app.Flag("speed", "Note speed, field units per frame").Default("5").Int()
		fps         = app.Flag("fps", "Frames per second").Default("60").Float64()
		keys        = app.Flag("keys", "Lane keys, left to right").Default("askl").Short('k').String()
		seed        = app.Flag("seed", "Note spawn seed, 0 for a random one").Default("0").Int64()
		volume      = app.Flag("volume", "Music volume between 0 and 1").Default("0.5").Float64()
		mute        = app.Flag("mute", "Play without music").Bool()
		logFile     = app.Flag("log-file", "Log file").Default("chorus.log").String()
		logLevel    = app.Flag("log-level", "Log level").Default("info").Enum("debug", "info", "warn", "error")
	)

	if _, err := app.Parse(args); nil != err {
		return nil, err
	}

	level, err := log.ParseLevel(*logLevel)
	if nil != err {
		return nil, err
	}

	c := &Config{
		Directory:   *directory,
		Store:       *store,
		StoreFormat: *storeFormat,
		TimeLimit:   *timeLimit,
		SpawnChance: *spawnChance,
		Speed:       *speed,
		FPS:         *fps,
		Keys:        []rune(*keys),
		Seed:        *seed,
		Volume:      *volume,
		Mute:        *mute,
		LogFile:     *logFile,
		LogLevel:    level,
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c, c.validate()
}

func (c *Config) validate() error {
	if len(c.Keys) != game.NLanes {
		return errors.Errorf("need %d lane keys, got %q", game.NLanes, string(c.Keys))
	}
	seen := map[rune]bool{}
	for _, k := range c.Keys {
		k = unicode.ToLower(k)
		if k == 'm' {
			return errors.New("m is reserved for returning to the menu")
		}
		if seen[k] {
			return errors.Errorf("lane key %q bound twice", k)
		}
		seen[k] = true
	}
	if c.SpawnChance < 1 {
		return errors.New("spawn chance must be at least 1")
	}
	if c.Speed < 1 {
		return errors.New("speed must be at least 1")
	}
	if c.FPS <= 0 {
		return errors.New("fps must be positive")
	}
	if c.TimeLimit <= 0 {
		return errors.New("time limit must be positive")
	}
	return nil
}
