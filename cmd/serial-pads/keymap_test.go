package main

import (
	"reflect"
	"strings"
	"testing"

	. "github.com/JeanRibes/beatbox/shared"
)

func TestParseKeymap(t *testing.T) {
	keymap, err := ParseKeymap(strings.NewReader(`
# bass drum, first beat
36:0
37: 4
48:-1
49:-2

50:-6
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := Keymap{36: 0, 37: 4, 48: PAD_START, 49: PAD_STOP, 50: PAD_RESTORE}
	if !reflect.DeepEqual(want, keymap) {
		t.Fatalf("want %v, got %v", want, keymap)
	}
}

func TestParseKeymapErrors(t *testing.T) {
	cases := map[string]string{
		"no colon":       "36\n",
		"bad code":       "a:1\n",
		"bad action":     "36:x\n",
		"cell too large": "36:256\n",
		"no control":     "36:-7\n",
	}
	for name, content := range cases {
		if _, err := ParseKeymap(strings.NewReader(content)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestPadsToggleAndControls(t *testing.T) {
	pads := NewPads(Keymap{1: Index(0, 0), 2: Index(0, 4), 9: PAD_START, 10: PAD_TEMPO_UP})

	press := func(code byte) (Message, bool) { return pads.Handle(0x00, code) }
	release := func(code byte) (Message, bool) { return pads.Handle(0x80, code) }

	if _, ok := press(1); ok {
		t.Fatalf("cell pads must not send messages")
	}
	if _, ok := press(1); ok {
		t.Fatalf("held pad must not repeat")
	}
	release(1)
	press(2)
	release(2)
	press(1)
	release(1)
	press(1)
	release(1)

	grid := pads.Grid()
	if !grid.Cell(0, 0) || !grid.Cell(0, 4) || grid.Count() != 2 {
		t.Fatalf("unexpected grid:\n%s", grid)
	}

	msg, ok := press(9)
	if !ok || msg.Type != Start {
		t.Fatalf("expected start, got %v %t", msg.Type, ok)
	}
	if msg.Grid != grid {
		t.Fatalf("start should carry the pad grid")
	}
	release(9)
	if msg, ok := press(10); !ok || msg.Type != TempoUp {
		t.Fatalf("expected tempo+, got %v %t", msg.Type, ok)
	}
	if _, ok := press(99); ok {
		t.Fatalf("unmapped pad must be ignored")
	}
}

func TestPadsSetGrid(t *testing.T) {
	pads := NewPads(Keymap{1: 0})
	g, _ := ParseGrid("....x...........")
	pads.SetGrid(g)
	pads.Handle(0x00, 1)
	if got := pads.Grid(); !got.Cell(0, 0) || !got.Cell(0, 4) {
		t.Fatalf("toggle should apply over the restored grid:\n%s", got)
	}
}
