package music

import (
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

type Command uint8

const (
	NOTE_OFF       Command = 0x80
	NOTE_ON        Command = 0x90
	CONTROL_CHANGE Command = 0xB0
	PROGRAM_CHANGE Command = 0xC0
)

func (c Command) String() string {
	switch c {
	case NOTE_OFF:
		return "NoteOff"
	case NOTE_ON:
		return "NoteOn"
	case CONTROL_CHANGE:
		return "ControlChange"
	case PROGRAM_CHANGE:
		return "ProgramChange"
	default:
		return fmt.Sprintf("Command(%#x)", uint8(c))
	}
}

var (
	ErrMalformedEvent         = errors.New("malformed event")
	ErrDeviceUnavailable      = errors.New("sequencer device unavailable")
	ErrPersistenceUnavailable = errors.New("saved state unavailable")
)

// TimedEvent is one channel message placed at an absolute tick of the bar.
type TimedEvent struct {
	Command Command
	Channel uint8
	Data1   uint8
	Data2   uint8
	Tick    uint32
	Message midi.Message
}

func (ev TimedEvent) String() string {
	return fmt.Sprintf("%s ch=%d %d/%d @%d", ev.Command, ev.Channel, ev.Data1, ev.Data2, ev.Tick)
}

// MakeEvent builds a single event. Values outside the MIDI ranges are rejected
// with ErrMalformedEvent instead of being masked.
func MakeEvent(cmd Command, channel, data1, data2, tick int) (TimedEvent, error) {
	if channel < 0 || channel > 15 {
		return TimedEvent{}, fmt.Errorf("%w: channel %d out of range", ErrMalformedEvent, channel)
	}
	if data1 < 0 || data1 > 127 || data2 < 0 || data2 > 127 {
		return TimedEvent{}, fmt.Errorf("%w: data %d/%d out of range", ErrMalformedEvent, data1, data2)
	}
	if tick < 0 {
		return TimedEvent{}, fmt.Errorf("%w: negative tick %d", ErrMalformedEvent, tick)
	}
	ch, d1, d2 := uint8(channel), uint8(data1), uint8(data2)

	var msg midi.Message
	switch cmd {
	case NOTE_ON:
		msg = midi.NoteOn(ch, d1, d2)
	case NOTE_OFF:
		msg = midi.NoteOffVelocity(ch, d1, d2)
	case CONTROL_CHANGE:
		msg = midi.ControlChange(ch, d1, d2)
	case PROGRAM_CHANGE:
		msg = midi.ProgramChange(ch, d1)
	default:
		return TimedEvent{}, fmt.Errorf("%w: unsupported command %s", ErrMalformedEvent, cmd)
	}
	return TimedEvent{
		Command: cmd,
		Channel: ch,
		Data1:   d1,
		Data2:   d2,
		Tick:    uint32(tick),
		Message: msg,
	}, nil
}
