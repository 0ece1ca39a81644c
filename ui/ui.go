package ui

import (
	"context"

	. "github.com/JeanRibes/beatbox/shared"

	"github.com/JeanRibes/beatbox/config"
	charmlog "github.com/charmbracelet/log"
	"github.com/gotk3/gotk3/gtk"
)

// Run builds the window and blocks in the GTK main loop. Every button posts a
// Message carrying a snapshot of the check buttons; replies come on SinkUI.
func Run(ctx context.Context, logger *charmlog.Logger, recent *config.Recent, bpm float64, SinkUI <-chan Message, SinkLoop chan<- Message) {
	logger.Info("start")
	gtk.Init(nil)
	loadUI()

	windestroyhandle := mainWin.Connect("destroy", func() {
		logger.Debug("close win, sending quit event")
		SinkLoop <- Message{Type: Quit}
		gtk.MainQuit()
	})

	startBtn.Connect("clicked", func() {
		SinkLoop <- Message{Type: Start, Grid: snapshot()}
	})
	stopBtn.Connect("clicked", func() {
		SinkLoop <- Message{Type: Stop}
	})
	tempoUpBtn.Connect("clicked", func() {
		SinkLoop <- Message{Type: TempoUp}
	})
	tempoDownBtn.Connect("clicked", func() {
		SinkLoop <- Message{Type: TempoDown}
	})
	saveBtn.Connect("clicked", func() {
		SinkLoop <- Message{Type: Save, Grid: snapshot()}
	})
	restoreBtn.Connect("clicked", func() {
		SinkLoop <- Message{Type: Restore}
	})
	clearBtn.Connect("clicked", func() {
		setGrid(Grid{})
	})

	recentTable := NewWithTreeView(recentView, func(path string) {
		logger.Info("import recent", "path", path)
		SinkLoop <- Message{Type: Import, String: path, Boolean: quantizeChb.GetActive()}
	})
	recent.Refresh()
	recentTable.FromRecent(recent.Imports)

	exportBtn.Connect("clicked", func() {
		d, _ := gtk.FileChooserDialogNewWith2Buttons("Exporter MIDI", mainWin, gtk.FILE_CHOOSER_ACTION_SAVE, "Exporter", gtk.RESPONSE_ACCEPT, "Annuler", gtk.RESPONSE_CANCEL)
		d.SetFilter(midiFilter())
		d.SetDoOverwriteConfirmation(true)
		if dir := recent.Dir(); dir != "" {
			d.SetCurrentFolder(dir)
		}
		if d.Run() == gtk.RESPONSE_ACCEPT {
			filename := d.GetFilename()
			logger.Info("exporting", "path", filename)
			SinkLoop <- Message{Type: Export, String: filename, Grid: snapshot()}
			recent.AddExport(filename)
		}
		d.Destroy()
	})

	importBtn.Connect("clicked", func() {
		d, _ := gtk.FileChooserDialogNewWith2Buttons("Charger MIDI", mainWin, gtk.FILE_CHOOSER_ACTION_OPEN, "Ouvrir", gtk.RESPONSE_ACCEPT, "Annuler", gtk.RESPONSE_CANCEL)
		d.SetFilter(midiFilter())
		if dir := recent.Dir(); dir != "" {
			d.SetCurrentFolder(dir)
		}
		if d.Run() == gtk.RESPONSE_ACCEPT {
			filename := d.GetFilename()
			SinkLoop <- Message{Type: Import, String: filename, Boolean: quantizeChb.GetActive()}
			recent.AddImport(filename)
			recentTable.FromRecent(recent.Imports)
		}
		d.Destroy()
	})

	mainWin.ShowAll()

	go loop(ctx, SinkUI, logger, bpm)
	gtk.Main()
	logger.Info("stop")
	if err := recent.Save(); err != nil {
		logger.Warn("could not save recent files", "err", err)
	}
	mainWin.HandlerDisconnect(windestroyhandle)
}

func midiFilter() *gtk.FileFilter {
	filter, _ := gtk.FileFilterNew()
	filter.AddPattern("*.mid")
	filter.AddPattern("*.midi")
	filter.AddMimeType("audio/midi")
	return filter
}
