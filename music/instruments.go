package music

import (
	. "github.com/JeanRibes/beatbox/shared"
)

type Instrument struct {
	Name string
	Note uint8
}

// Instruments maps a grid row to a General MIDI percussion key.
var Instruments = [NUM_INSTRUMENTS]Instrument{
	{"Bass Drum", 35},
	{"Closed Hi-Hat", 42},
	{"Open Hi-Hat", 46},
	{"Acoustic Snare", 38},
	{"Crash Cymbal", 49},
	{"Hand Clap", 39},
	{"High Tom", 50},
	{"Hi Bongo", 60},
	{"Maracas", 70},
	{"Whistle", 72},
	{"Low Conga", 64},
	{"Cowbell", 56},
	{"Vibraslap", 58},
	{"Low-mid Tom", 47},
	{"High Agogo", 67},
	{"Open Hi Conga", 63},
}

// InstrumentByNote returns the row playing note, or -1.
func InstrumentByNote(note uint8) int {
	for i, inst := range Instruments {
		if inst.Note == note {
			return i
		}
	}
	return -1
}
