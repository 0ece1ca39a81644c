package music

import (
	"bytes"
	"fmt"
	"os"

	. "github.com/JeanRibes/beatbox/shared"

	"gitlab.com/gomidi/midi/v2/smf"
	"gitlab.com/gomidi/quantizer/lib/quantizer"
)

// ImportMIDI lays the first bar of a MIDI file onto a grid. Only notes of the
// instrument table are kept; everything else in the file is ignored.
func ImportMIDI(filepath string, quantize bool) (Grid, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return Grid{}, err
	}
	if quantize {
		var out bytes.Buffer
		if err := quantizer.Quantize(bytes.NewReader(data), &out); err != nil {
			return Grid{}, fmt.Errorf("quantize %s: %w", filepath, err)
		}
		data = out.Bytes()
	}
	f, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return Grid{}, fmt.Errorf("read %s: %w", filepath, err)
	}
	ticks, ok := f.TimeFormat.(smf.MetricTicks)
	if !ok {
		return Grid{}, fmt.Errorf("%s: unsupported time format %v", filepath, f.TimeFormat)
	}
	return GridFromTracks(f.Tracks, ticks), nil
}

// GridFromTracks rounds every note on to the nearest sixteenth of the first bar.
func GridFromTracks(tracks []smf.Track, ticks smf.MetricTicks) Grid {
	var grid Grid
	step := uint32(ticks.Ticks4th()) / 4
	if step == 0 {
		step = 1
	}
	for _, tr := range tracks {
		abs := uint32(0)
		for _, ev := range tr {
			abs += ev.Delta
			var ch, key, vel uint8
			if !ev.Message.GetNoteOn(&ch, &key, &vel) || vel == 0 {
				continue
			}
			j := int((abs + step/2) / step)
			if j >= NUM_STEPS {
				continue
			}
			if i := InstrumentByNote(key); i >= 0 {
				grid.Set(i, j, true)
			}
		}
	}
	return grid
}
