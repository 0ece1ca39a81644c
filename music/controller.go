package music

import (
	"errors"
	"fmt"
	"sync"

	. "github.com/JeanRibes/beatbox/shared"

	charmlog "github.com/charmbracelet/log"
)

type PlayState int

const (
	Idle PlayState = iota
	Loaded
	Playing
	Stopped
)

func (s PlayState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("PlayState(%d)", int(s))
	}
}

const (
	TEMPO_UP   = 1.03
	TEMPO_DOWN = 0.97
)

type Options struct {
	BPM    float64
	Logger *charmlog.Logger
}

// Controller owns the sequencer device and the current track. Every method
// holds the same lock, so at most one operation runs at a time.
type Controller struct {
	mu      sync.Mutex
	device  Sequencer
	builder *SequenceBuilder
	store   *GridStore
	logger  *charmlog.Logger

	grid   Grid
	bpm    float64
	factor float64
	state  PlayState
}

// NewController opens the device. A device that cannot be opened ends the
// session: the error wraps ErrDeviceUnavailable.
func NewController(device Sequencer, store *GridStore, opts Options) (*Controller, error) {
	if opts.BPM <= 0 {
		opts.BPM = DEFAULT_BPM
	}
	if opts.Logger == nil {
		opts.Logger = charmlog.Default()
	}
	if store == nil {
		store = NewGridStore("")
	}
	if err := device.Open(); err != nil {
		if !errors.Is(err, ErrDeviceUnavailable) {
			err = fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		return nil, err
	}
	device.SetTempoBPM(opts.BPM)
	return &Controller{
		device:  device,
		builder: NewSequenceBuilder(),
		store:   store,
		logger:  opts.Logger,
		bpm:     opts.BPM,
		factor:  1,
		state:   Idle,
	}, nil
}

// Start rebuilds the track from grid and plays it in a loop at the baseline
// tempo. A failed build leaves the current playback as it was.
func (c *Controller) Start(grid Grid) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	track, err := c.builder.Build(grid)
	if err != nil {
		c.logger.Error("build failed", "err", err)
		return err
	}
	return c.play(grid, track)
}

func (c *Controller) play(grid Grid, track Track) error {
	if err := c.device.SetSequence(track); err != nil {
		return err
	}
	c.grid = grid
	c.state = Loaded
	c.device.SetLoopForever()
	c.device.SetTempoBPM(c.bpm)
	c.device.SetTempoFactor(1)
	c.factor = 1
	if err := c.device.Start(); err != nil {
		return err
	}
	c.state = Playing
	c.logger.Info("playing", "cells", grid.Count(), "events", len(track))
	return nil
}

func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop()
}

func (c *Controller) stop() {
	if c.state != Playing {
		return
	}
	c.device.Stop()
	c.state = Stopped
	c.logger.Info("stopped")
}

// TempoUp and TempoDown scale the tempo factor without any bound.
func (c *Controller) TempoUp() float64 {
	return c.scaleTempo(TEMPO_UP)
}

func (c *Controller) TempoDown() float64 {
	return c.scaleTempo(TEMPO_DOWN)
}

func (c *Controller) scaleTempo(k float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factor = c.device.TempoFactor() * k
	c.device.SetTempoFactor(c.factor)
	c.logger.Debug("tempo", "factor", c.factor, "bpm", c.bpm*c.factor)
	return c.factor
}

// Save persists grid. Playback is not affected.
func (c *Controller) Save(grid Grid) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.SaveToFile(grid); err != nil {
		c.logger.Error("save failed", "err", err)
		return err
	}
	c.logger.Info("saved", "file", c.store.Path, "cells", grid.Count())
	return nil
}

// Restore loads the saved grid, then stops and restarts with it. It is all
// or nothing: on error the grid and the playback state are untouched.
func (c *Controller) Restore() (Grid, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	grid, err := c.store.LoadFromFile()
	if err != nil {
		c.logger.Warn("restore failed", "err", err)
		return c.grid, err
	}
	if err := c.replace(grid); err != nil {
		return c.grid, err
	}
	c.logger.Info("restored", "file", c.store.Path, "cells", grid.Count())
	return grid, nil
}

// Import reads a MIDI file onto the grid and restarts with it, like Restore.
func (c *Controller) Import(filepath string, quantize bool) (Grid, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	grid, err := ImportMIDI(filepath, quantize)
	if err != nil {
		c.logger.Error("import failed", "file", filepath, "err", err)
		return c.grid, err
	}
	if err := c.replace(grid); err != nil {
		return c.grid, err
	}
	c.logger.Info("imported", "file", filepath, "cells", grid.Count())
	return grid, nil
}

func (c *Controller) replace(grid Grid) error {
	track, err := c.builder.Build(grid)
	if err != nil {
		return err
	}
	c.stop()
	return c.play(grid, track)
}

// Export writes the track built from grid as a MIDI file.
func (c *Controller) Export(grid Grid, filepath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	track, err := Build(grid)
	if err != nil {
		return err
	}
	if err := track.WriteMIDI(filepath, c.bpm); err != nil {
		c.logger.Error("export failed", "file", filepath, "err", err)
		return err
	}
	c.logger.Info("exported", "file", filepath, "events", len(track))
	return nil
}

func (c *Controller) State() PlayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Grid returns the grid the current track was built from.
func (c *Controller) Grid() Grid {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid
}

func (c *Controller) Track() Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builder.Track()
}

func (c *Controller) TempoFactor() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.factor
}

func (c *Controller) BPM() float64 {
	return c.bpm
}
