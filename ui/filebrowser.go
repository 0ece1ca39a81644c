package ui

import (
	"strings"
	"time"

	"github.com/JeanRibes/beatbox/config"
	"github.com/charmbracelet/log"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

// Tableau lists recently imported MIDI files; activating a row imports it.
type Tableau struct {
	treeView  *gtk.TreeView
	listStore *gtk.ListStore
}

const (
	COLONNE_NOM = iota
	COLONNE_DATE
	COLONNE_PATH
)

func NewWithTreeView(treeView *gtk.TreeView, onActivate func(path string)) *Tableau {
	cell1Renderer, _ := gtk.CellRendererTextNew()
	column1, _ := gtk.TreeViewColumnNewWithAttribute("nom", cell1Renderer, "text", COLONNE_NOM)
	treeView.AppendColumn(column1)

	cell2Renderer, _ := gtk.CellRendererTextNew()
	column2, _ := gtk.TreeViewColumnNewWithAttribute("date", cell2Renderer, "text", COLONNE_DATE)
	treeView.AppendColumn(column2)

	listStore, err := gtk.ListStoreNew(glib.TYPE_STRING, glib.TYPE_STRING, glib.TYPE_STRING)
	if err != nil {
		log.Fatal("Unable to create list store:", err)
	}
	treeView.SetModel(listStore)

	tb := &Tableau{
		treeView:  treeView,
		listStore: listStore,
	}
	treeView.Connect("row-activated", func(_ *gtk.TreeView, path *gtk.TreePath, _ *gtk.TreeViewColumn) {
		iter, err := listStore.GetIter(path)
		if err != nil {
			return
		}
		val, err := listStore.GetValue(iter, COLONNE_PATH)
		if err != nil {
			return
		}
		if s, err := val.GetString(); err == nil {
			onActivate(s)
		}
	})
	return tb
}

func (tb *Tableau) AddRow(path string, date time.Time) {
	iter := tb.listStore.Append()
	nom := path
	if home := glib.GetHomeDir(); home != "" {
		nom = strings.Replace(path, home, "~", 1)
	}
	tb.listStore.SetValue(iter, COLONNE_NOM, nom)
	tb.listStore.SetValue(iter, COLONNE_DATE, date.Format("02/01 15:04"))
	tb.listStore.SetValue(iter, COLONNE_PATH, path)
}

func (tb *Tableau) Clear() {
	tb.listStore.Clear()
}

func (tb *Tableau) FromRecent(files config.RecentFiles) {
	tb.Clear()
	for _, rf := range files.Newest() {
		tb.AddRow(rf.Path, time.Unix(rf.Time, 0))
	}
}
