package ui

import (
	"context"
	"fmt"

	. "github.com/JeanRibes/beatbox/shared"

	"github.com/charmbracelet/log"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

func loop(ctx context.Context, SinkUI <-chan Message, logger *log.Logger, bpm float64) {
	errors := ""
	errorDialog := gtk.MessageDialogNew(mainWin, gtk.DIALOG_MODAL, gtk.MESSAGE_ERROR, gtk.BUTTONS_CLOSE, "Erreur")
	errorDialog.Connect("response", func() {
		errorDialog.Hide()
		errors = ""
	})

	for {
		select {
		case <-ctx.Done():
			logger.Debug("chan Done, quitting")
			glib.IdleAdd(gtk.MainQuit)
			return
		case msg := <-SinkUI:
			switch msg.Type {
			case GridUpdate:
				grid := msg.Grid
				glib.IdleAdd(func() { setGrid(grid) })
			case PlayNotify:
				text := "stopped"
				if msg.Boolean {
					text = "playing"
				}
				glib.IdleAdd(func() { stateLabel.SetText(text) })
			case TempoNotify:
				text := fmt.Sprintf("tempo x%.2f (%.0f BPM)", msg.Float, bpm*msg.Float)
				glib.IdleAdd(func() { tempoLabel.SetText(text) })
			case Error:
				if len(errors) == 0 {
					errors = msg.String
				} else {
					errors += "\n\n" + msg.String
				}
				text := errors
				glib.IdleAdd(func() {
					errorDialog.FormatSecondaryText(text)
					errorDialog.Show()
				})
			default:
				logger.Debug("ignored", "type", msg.Type)
			}
		}
	}
}

// setGrid and snapshot must run on the GTK thread.
func setGrid(grid Grid) {
	for i, cb := range cells {
		cb.SetActive(grid[i])
	}
}

func snapshot() Grid {
	var grid Grid
	for i, cb := range cells {
		grid[i] = cb.GetActive()
	}
	return grid
}
