package music

import (
	"context"
	"fmt"
	"sync"
	"time"

	. "github.com/JeanRibes/beatbox/shared"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Sequencer is the playback device. Once started it runs its own clock and
// keeps sending the loaded track until stopped.
type Sequencer interface {
	Open() error
	SetSequence(track Track) error
	SetTempoBPM(bpm float64)
	SetTempoFactor(factor float64)
	TempoFactor() float64
	SetLoopForever()
	Start() error
	Stop()
}

const ALL_NOTES_OFF = 123

// PortSequencer plays a track on a MIDI output port.
type PortSequencer struct {
	out    drivers.Out
	send   func(midi.Message) error
	logger *charmlog.Logger

	mu     sync.Mutex
	track  Track
	bpm    float64
	factor float64
	loop   bool
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPortSequencer(out drivers.Out, logger *charmlog.Logger) *PortSequencer {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &PortSequencer{
		out:    out,
		logger: logger,
		bpm:    DEFAULT_BPM,
		factor: 1,
	}
}

// NewSendSequencer plays into an already opened send function.
func NewSendSequencer(send func(midi.Message) error, logger *charmlog.Logger) *PortSequencer {
	p := NewPortSequencer(nil, logger)
	p.send = send
	return p
}

func (p *PortSequencer) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.send != nil {
		return nil
	}
	if p.out == nil {
		return fmt.Errorf("%w: no output port", ErrDeviceUnavailable)
	}
	send, err := midi.SendTo(p.out)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDeviceUnavailable, p.out.String(), err)
	}
	p.send = send
	p.logger.Info("opened", "output", p.out.String())
	return nil
}

func (p *PortSequencer) SetSequence(track Track) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.send == nil {
		return fmt.Errorf("%w: not open", ErrDeviceUnavailable)
	}
	p.track = track.Sorted()
	return nil
}

func (p *PortSequencer) SetTempoBPM(bpm float64) {
	p.mu.Lock()
	p.bpm = bpm
	p.mu.Unlock()
}

func (p *PortSequencer) SetTempoFactor(factor float64) {
	p.mu.Lock()
	p.factor = factor
	p.mu.Unlock()
}

func (p *PortSequencer) TempoFactor() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.factor
}

func (p *PortSequencer) SetLoopForever() {
	p.mu.Lock()
	p.loop = true
	p.mu.Unlock()
}

// Running reports whether the clock goroutine is still playing.
func (p *PortSequencer) Running() bool {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Start plays from the top of the bar, restarting if already running.
func (p *PortSequencer) Start() error {
	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.send == nil {
		return fmt.Errorf("%w: not open", ErrDeviceUnavailable)
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.play(ctx, p.track, p.done)
	p.logger.Debug("start", "events", len(p.track), "bpm", p.bpm, "factor", p.factor)
	return nil
}

func (p *PortSequencer) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	send := p.send
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	if err := send(midi.ControlChange(DRUM_CHANNEL, ALL_NOTES_OFF, 0)); err != nil {
		p.logger.Error(err)
	}
	p.logger.Debug("stop")
}

func (p *PortSequencer) Close() error {
	p.Stop()
	if p.out != nil && p.out.IsOpen() {
		return p.out.Close()
	}
	return nil
}

func (p *PortSequencer) play(ctx context.Context, track Track, done chan struct{}) {
	defer close(done)
	for {
		tick := uint32(0)
		for _, ev := range track {
			if !p.wait(ctx, ev.Tick-tick) {
				return
			}
			tick = ev.Tick
			if err := p.send(ev.Message); err != nil {
				p.logger.Error("send failed", "event", ev, "err", err)
			}
		}
		if tick < BAR_TICKS && !p.wait(ctx, BAR_TICKS-tick) {
			return
		}
		p.mu.Lock()
		loop := p.loop
		p.mu.Unlock()
		if !loop {
			return
		}
	}
}

// wait sleeps for delta ticks at the current tempo; false means cancelled.
func (p *PortSequencer) wait(ctx context.Context, delta uint32) bool {
	if delta == 0 {
		return ctx.Err() == nil
	}
	p.mu.Lock()
	bpm := p.bpm * p.factor
	p.mu.Unlock()
	if bpm <= 0 {
		bpm = DEFAULT_BPM
	}
	timer := time.NewTimer(TICKS.Duration(bpm, delta))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
