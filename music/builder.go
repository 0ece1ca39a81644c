package music

import (
	"fmt"
	"sort"

	. "github.com/JeanRibes/beatbox/shared"

	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	PPQ       = 4
	BAR_TICKS = 16

	DRUM_CHANNEL = 9
	VELOCITY     = 100

	// row marker sent after every instrument row
	MARKER_CHANNEL = 1
	MARKER_DATA    = 127
	// end of bar patch reset
	RESET_PROGRAM = 1
	RESET_TICK    = 15
)

const TICKS = smf.MetricTicks(PPQ)

// Track keeps events in the order they were built: one contiguous block per
// instrument row, then the trailing program change. It is not sorted by tick.
type Track []TimedEvent

// NoteCount counts note on events.
func (tr Track) NoteCount() (n int) {
	for _, ev := range tr {
		if ev.Command == NOTE_ON {
			n++
		}
	}
	return
}

// Sorted returns a copy ordered by tick, keeping build order inside a tick.
func (tr Track) Sorted() Track {
	out := make(Track, len(tr))
	copy(out, tr)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out
}

// SMF converts the track into delta-timed form at PPQ resolution.
func (tr Track) SMF(bpm float64) smf.Track {
	out := smf.Track{}
	out.Add(0, smf.MetaTrackSequenceName("beatbox"))
	out.Add(0, smf.MetaTempo(bpm))
	prev := uint32(0)
	for _, ev := range tr.Sorted() {
		out.Add(ev.Tick-prev, ev.Message)
		prev = ev.Tick
	}
	if prev < BAR_TICKS {
		out.Close(BAR_TICKS - prev)
	} else {
		out.Close(0)
	}
	return out
}

// WriteMIDI exports the track as a single track Standard MIDI File.
func (tr Track) WriteMIDI(filepath string, bpm float64) error {
	f := smf.New()
	f.TimeFormat = TICKS
	if err := f.Add(tr.SMF(bpm)); err != nil {
		return err
	}
	return f.WriteFile(filepath)
}

type SequenceBuilder struct {
	track Track
}

func NewSequenceBuilder() *SequenceBuilder {
	return &SequenceBuilder{}
}

// Track returns the last successfully built track.
func (b *SequenceBuilder) Track() Track {
	return b.track
}

// Build replaces the held track with a fresh one made from grid. On error the
// previous track is kept and nothing partial is returned.
func (b *SequenceBuilder) Build(grid Grid) (Track, error) {
	track, err := Build(grid)
	if err != nil {
		return nil, err
	}
	b.track = track
	return track, nil
}

// Build converts a grid snapshot into a track.
func Build(grid Grid) (Track, error) {
	track := make(Track, 0, 2*grid.Count()+NUM_INSTRUMENTS+1)

	add := func(cmd Command, channel, data1, data2, tick int) error {
		ev, err := MakeEvent(cmd, channel, data1, data2, tick)
		if err != nil {
			return err
		}
		track = append(track, ev)
		return nil
	}

	for i := 0; i < NUM_INSTRUMENTS; i++ {
		key := int(Instruments[i].Note)
		for j := 0; j < NUM_STEPS; j++ {
			if !grid[Index(i, j)] {
				continue
			}
			if err := add(NOTE_ON, DRUM_CHANNEL, key, VELOCITY, j); err != nil {
				return nil, fmt.Errorf("instrument %d step %d: %w", i, j, err)
			}
			if err := add(NOTE_OFF, DRUM_CHANNEL, key, VELOCITY, j+1); err != nil {
				return nil, fmt.Errorf("instrument %d step %d: %w", i, j, err)
			}
		}
		if err := add(CONTROL_CHANGE, MARKER_CHANNEL, MARKER_DATA, 0, BAR_TICKS); err != nil {
			return nil, fmt.Errorf("row marker %d: %w", i, err)
		}
	}
	if err := add(PROGRAM_CHANGE, DRUM_CHANNEL, RESET_PROGRAM, 0, RESET_TICK); err != nil {
		return nil, fmt.Errorf("bar reset: %w", err)
	}
	return track, nil
}
