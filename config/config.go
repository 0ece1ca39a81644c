package config

import (
	"errors"
	"io/fs"
	"os"

	. "github.com/JeanRibes/beatbox/shared"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const DEFAULT_FILE = "beatbox.yaml"

type Serial struct {
	Port   string `yaml:"port"`
	Baud   int    `yaml:"baud"`
	Keymap string `yaml:"keymap"`
}

type Config struct {
	// Output is the MIDI output port name. A missing port is replaced by a
	// virtual one.
	Output      string  `yaml:"output"`
	StateFile   string  `yaml:"state_file"`
	RecentFiles string  `yaml:"recent_files"`
	BPM         float64 `yaml:"bpm"`
	LogLevel    string  `yaml:"log_level"`
	Serial      Serial  `yaml:"serial"`
}

func Default() Config {
	return Config{
		Output:      "Synth input port",
		StateFile:   DEFAULT_STATE_FILE,
		RecentFiles: "recent.yaml",
		BPM:         DEFAULT_BPM,
		LogLevel:    "info",
		Serial: Serial{
			Port:   "/dev/ttyACM0",
			Baud:   115200,
			Keymap: "keymap.txt",
		},
	}
}

// Load reads filename over the defaults. A missing file is not an error.
func Load(filename string) (Config, error) {
	config := Default()
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Default(), err
	}
	config.fill()
	return config, nil
}

// fill puts back defaults for keys present but left empty.
func (c *Config) fill() {
	def := Default()
	if c.StateFile == "" {
		c.StateFile = def.StateFile
	}
	if c.RecentFiles == "" {
		c.RecentFiles = def.RecentFiles
	}
	if c.BPM <= 0 {
		c.BPM = def.BPM
	}
	if c.Serial.Baud <= 0 {
		c.Serial.Baud = def.Serial.Baud
	}
	if c.Serial.Keymap == "" {
		c.Serial.Keymap = def.Serial.Keymap
	}
}

func (c Config) Level() charmlog.Level {
	level, err := charmlog.ParseLevel(c.LogLevel)
	if err != nil {
		return charmlog.InfoLevel
	}
	return level
}

// Logger builds a component logger at the configured level.
func (c Config) Logger(prefix string) *charmlog.Logger {
	level := c.Level()
	return charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		Level:           level,
		ReportCaller:    level == charmlog.DebugLevel,
		ReportTimestamp: false,
		Prefix:          prefix,
	})
}
