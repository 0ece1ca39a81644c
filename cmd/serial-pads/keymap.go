package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	. "github.com/JeanRibes/beatbox/shared"
)

// Keymap maps a pad code to an action: a value >= 0 is a grid cell index,
// a negative value one of the controls below.
type Keymap map[int]int

const (
	PAD_START = -(iota + 1)
	PAD_STOP
	PAD_TEMPO_UP
	PAD_TEMPO_DOWN
	PAD_SAVE
	PAD_RESTORE
)

var padControls = map[int]Event{
	PAD_START:      Start,
	PAD_STOP:       Stop,
	PAD_TEMPO_UP:   TempoUp,
	PAD_TEMPO_DOWN: TempoDown,
	PAD_SAVE:       Save,
	PAD_RESTORE:    Restore,
}

// ParseKeymap reads one "code:action" pair per line. Blank lines and lines
// starting with # are skipped.
func ParseKeymap(r io.Reader) (Keymap, error) {
	keymap := Keymap{}
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s := strings.Split(line, ":")
		if len(s) != 2 {
			return nil, fmt.Errorf("line %d: expected code:action, got %q", n, line)
		}
		key, err := strconv.Atoi(strings.TrimSpace(s[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		val, err := strconv.Atoi(strings.TrimSpace(s[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if _, ok := padControls[val]; val >= NUM_CELLS || (val < 0 && !ok) {
			return nil, fmt.Errorf("line %d: no such action %d", n, val)
		}
		keymap[key] = val
	}
	return keymap, scanner.Err()
}

func LoadKeymap(filename string) (Keymap, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseKeymap(file)
}

// Pads holds the grid edited from the pad controller. Presses come from the
// serial reader, grid updates from the control loop.
type Pads struct {
	mu     sync.Mutex
	keymap Keymap
	grid   Grid
	held   [256]bool
}

func NewPads(keymap Keymap) *Pads {
	return &Pads{keymap: keymap}
}

// Handle turns one two-byte serial frame into a control message. The top bit
// of status set means release. ok is false when nothing should be sent.
func (p *Pads) Handle(status, code byte) (msg Message, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pressed := status>>7 == 0
	if p.held[code] == pressed {
		return msg, false
	}
	p.held[code] = pressed
	if !pressed {
		return msg, false
	}
	action, mapped := p.keymap[int(code)]
	if !mapped {
		return msg, false
	}
	if action >= 0 {
		p.grid.Toggle(action)
		return msg, false
	}
	return Message{Type: padControls[action], Grid: p.grid}, true
}

func (p *Pads) SetGrid(grid Grid) {
	p.mu.Lock()
	p.grid = grid
	p.mu.Unlock()
}

func (p *Pads) Grid() Grid {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid
}
