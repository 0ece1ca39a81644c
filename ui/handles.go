package ui

import (
	"fmt"

	. "github.com/JeanRibes/beatbox/shared"

	"github.com/JeanRibes/beatbox/music"
	"github.com/gotk3/gotk3/gtk"
)

var mainWin *gtk.Window
var cells [NUM_CELLS]*gtk.CheckButton
var startBtn *gtk.Button
var stopBtn *gtk.Button
var tempoUpBtn *gtk.Button
var tempoDownBtn *gtk.Button
var saveBtn *gtk.Button
var restoreBtn *gtk.Button
var exportBtn *gtk.Button
var importBtn *gtk.Button
var quantizeChb *gtk.CheckButton
var clearBtn *gtk.Button
var stateLabel *gtk.Label
var tempoLabel *gtk.Label
var recentView *gtk.TreeView

func button(box *gtk.Box, label string) *gtk.Button {
	btn, err := gtk.ButtonNewWithLabel(label)
	if err != nil {
		panic(err)
	}
	box.PackStart(btn, false, false, 2)
	return btn
}

func label(text string) *gtk.Label {
	l, err := gtk.LabelNew(text)
	if err != nil {
		panic(err)
	}
	l.SetXAlign(0)
	return l
}

// loadUI lays out the window: instrument names on the left, the 16x16 grid
// in the middle, the controls on the right.
func loadUI() {
	var err error
	mainWin, err = gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		panic(err)
	}
	mainWin.SetTitle("Fruity Loops")
	mainWin.SetBorderWidth(10)

	background, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 10)
	mainWin.Add(background)

	grid, _ := gtk.GridNew()
	grid.SetRowSpacing(1)
	grid.SetColumnSpacing(2)
	for i := 0; i < NUM_INSTRUMENTS; i++ {
		grid.Attach(label(music.Instruments[i].Name), 0, i, 1, 1)
		for j := 0; j < NUM_STEPS; j++ {
			cb, err := gtk.CheckButtonNew()
			if err != nil {
				panic(err)
			}
			cb.SetTooltipText(fmt.Sprintf("%s, step %d", music.Instruments[i].Name, j+1))
			cells[Index(i, j)] = cb
			grid.Attach(cb, j+1, i, 1, 1)
		}
	}
	background.PackStart(grid, true, true, 0)

	buttonBox, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 2)
	startBtn = button(buttonBox, "START")
	stopBtn = button(buttonBox, "STOP")
	tempoUpBtn = button(buttonBox, "Tempo +")
	tempoDownBtn = button(buttonBox, "Tempo -")
	saveBtn = button(buttonBox, "SAVE")
	restoreBtn = button(buttonBox, "RESTORE")
	clearBtn = button(buttonBox, "Clear")

	sep, _ := gtk.SeparatorNew(gtk.ORIENTATION_HORIZONTAL)
	buttonBox.PackStart(sep, false, false, 4)
	exportBtn = button(buttonBox, "Export MIDI")
	importBtn = button(buttonBox, "Import MIDI")
	quantizeChb, _ = gtk.CheckButtonNewWithLabel("quantize")
	buttonBox.PackStart(quantizeChb, false, false, 2)

	stateLabel = label("idle")
	tempoLabel = label("")
	buttonBox.PackStart(stateLabel, false, false, 4)
	buttonBox.PackStart(tempoLabel, false, false, 0)

	recentView, _ = gtk.TreeViewNew()
	scroll, _ := gtk.ScrolledWindowNew(nil, nil)
	scroll.SetSizeRequest(200, 150)
	scroll.Add(recentView)
	buttonBox.PackStart(scroll, true, true, 4)

	background.PackStart(buttonBox, false, false, 0)
}
