package music

import (
	"errors"
	"io"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	. "github.com/JeanRibes/beatbox/shared"

	charmlog "github.com/charmbracelet/log"
)

type fakeSequencer struct {
	openErr   error
	calls     []string
	sequences []Track
	bpm       float64
	factor    float64
	loop      bool
	running   bool
}

func (f *fakeSequencer) Open() error {
	f.calls = append(f.calls, "open")
	return f.openErr
}

func (f *fakeSequencer) SetSequence(track Track) error {
	f.calls = append(f.calls, "sequence")
	f.sequences = append(f.sequences, track)
	return nil
}

func (f *fakeSequencer) SetTempoBPM(bpm float64)       { f.bpm = bpm }
func (f *fakeSequencer) SetTempoFactor(factor float64) { f.factor = factor }
func (f *fakeSequencer) TempoFactor() float64          { return f.factor }
func (f *fakeSequencer) SetLoopForever()               { f.loop = true }

func (f *fakeSequencer) Start() error {
	f.calls = append(f.calls, "start")
	f.running = true
	return nil
}

func (f *fakeSequencer) Stop() {
	f.calls = append(f.calls, "stop")
	f.running = false
}

func newTestController(t *testing.T) (*Controller, *fakeSequencer) {
	t.Helper()
	dev := &fakeSequencer{factor: 1}
	store := NewGridStore(filepath.Join(t.TempDir(), DEFAULT_STATE_FILE))
	ctrl, err := NewController(dev, store, Options{Logger: charmlog.New(io.Discard)})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	return ctrl, dev
}

func bassDrum(t *testing.T) Grid {
	t.Helper()
	g, err := ParseGrid("x...x...x...x...")
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestControllerDeviceUnavailable(t *testing.T) {
	dev := &fakeSequencer{openErr: errors.New("no such port")}
	_, err := NewController(dev, nil, Options{Logger: charmlog.New(io.Discard)})
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
}

func TestControllerStartPlaysLoopAtBaseline(t *testing.T) {
	ctrl, dev := newTestController(t)
	if ctrl.State() != Idle {
		t.Fatalf("expected idle, got %s", ctrl.State())
	}
	if err := ctrl.Start(bassDrum(t)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if ctrl.State() != Playing || !dev.running {
		t.Fatalf("expected playing, got %s", ctrl.State())
	}
	if !dev.loop || dev.bpm != DEFAULT_BPM || dev.factor != 1 {
		t.Fatalf("unexpected device setup: loop=%t bpm=%v factor=%v", dev.loop, dev.bpm, dev.factor)
	}
	if len(dev.sequences) != 1 || len(dev.sequences[0]) != 25 {
		t.Fatalf("expected one 25 event track, got %v", dev.sequences)
	}
	if ctrl.Grid() != bassDrum(t) {
		t.Fatalf("controller should remember the played grid")
	}
}

func TestControllerStartTwiceRebuildsSameTrack(t *testing.T) {
	ctrl, dev := newTestController(t)
	g := bassDrum(t)
	if err := ctrl.Start(g); err != nil {
		t.Fatal(err)
	}
	ctrl.TempoUp()
	if err := ctrl.Start(g); err != nil {
		t.Fatal(err)
	}
	if len(dev.sequences) != 2 {
		t.Fatalf("expected two loaded tracks, got %d", len(dev.sequences))
	}
	if !reflect.DeepEqual(dev.sequences[0], dev.sequences[1]) {
		t.Fatalf("restarting the same grid produced a different track")
	}
	if dev.factor != 1 || ctrl.TempoFactor() != 1 {
		t.Fatalf("start should reset the tempo factor, got %v", dev.factor)
	}
	if ctrl.State() != Playing {
		t.Fatalf("expected playing, got %s", ctrl.State())
	}
}

func TestControllerStopIsNoopWhenNotPlaying(t *testing.T) {
	ctrl, dev := newTestController(t)
	ctrl.Stop()
	if ctrl.State() != Idle {
		t.Fatalf("stop while idle changed state to %s", ctrl.State())
	}
	if err := ctrl.Start(Grid{}); err != nil {
		t.Fatal(err)
	}
	ctrl.Stop()
	ctrl.Stop()
	if ctrl.State() != Stopped {
		t.Fatalf("expected stopped, got %s", ctrl.State())
	}
	stops := 0
	for _, c := range dev.calls {
		if c == "stop" {
			stops++
		}
	}
	if stops != 1 {
		t.Fatalf("expected a single device stop, got %d (%v)", stops, dev.calls)
	}
}

func TestControllerTempoIsUnclamped(t *testing.T) {
	ctrl, _ := newTestController(t)
	const n = 40
	var f float64
	for i := 0; i < n; i++ {
		f = ctrl.TempoUp()
	}
	if want := math.Pow(TEMPO_UP, n); math.Abs(f-want) > 1e-9 {
		t.Fatalf("after %d tempo+ want %v, got %v", n, want, f)
	}

	ctrl, _ = newTestController(t)
	for i := 0; i < n; i++ {
		f = ctrl.TempoDown()
	}
	if want := math.Pow(TEMPO_DOWN, n); math.Abs(f-want) > 1e-9 {
		t.Fatalf("after %d tempo- want %v, got %v", n, want, f)
	}
}

func TestControllerRestoreWithoutSave(t *testing.T) {
	ctrl, dev := newTestController(t)
	g, err := ctrl.Restore()
	if !errors.Is(err, ErrPersistenceUnavailable) {
		t.Fatalf("expected ErrPersistenceUnavailable, got %v", err)
	}
	if g != (Grid{}) || ctrl.Grid() != (Grid{}) {
		t.Fatalf("grid must stay empty after a failed restore")
	}
	if ctrl.State() != Idle || len(dev.calls) != 1 {
		t.Fatalf("failed restore touched the device: %v", dev.calls)
	}
}

func TestControllerRestoreFailureKeepsPlayback(t *testing.T) {
	ctrl, dev := newTestController(t)
	g := bassDrum(t)
	if err := ctrl.Start(g); err != nil {
		t.Fatal(err)
	}
	calls := len(dev.calls)
	if _, err := ctrl.Restore(); err == nil {
		t.Fatalf("expected restore to fail")
	}
	if ctrl.State() != Playing || ctrl.Grid() != g || len(dev.calls) != calls {
		t.Fatalf("failed restore changed playback: %s %v", ctrl.State(), dev.calls[calls:])
	}
}

func TestControllerSaveRestore(t *testing.T) {
	ctrl, dev := newTestController(t)
	saved := bassDrum(t)
	saved.Set(15, 15, true)
	if err := ctrl.Save(saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if ctrl.State() != Idle || len(dev.calls) != 1 {
		t.Fatalf("save must not touch playback: %v", dev.calls)
	}

	if err := ctrl.Start(Grid{}); err != nil {
		t.Fatal(err)
	}
	dev.calls = nil
	g, err := ctrl.Restore()
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if g != saved || ctrl.Grid() != saved {
		t.Fatalf("restored grid mismatch:\n%s", g)
	}
	if want := []string{"stop", "sequence", "start"}; !reflect.DeepEqual(want, dev.calls) {
		t.Fatalf("want device calls %v, got %v", want, dev.calls)
	}
	if ctrl.State() != Playing {
		t.Fatalf("expected playing after restore, got %s", ctrl.State())
	}
	if n := len(dev.sequences[len(dev.sequences)-1]); n != 2*5+17 {
		t.Fatalf("expected restored track of %d events, got %d", 2*5+17, n)
	}
}

func TestControllerExportImport(t *testing.T) {
	ctrl, dev := newTestController(t)
	g := bassDrum(t)
	g.Set(3, 4, true)
	g.Set(3, 12, true)
	path := filepath.Join(t.TempDir(), "beat.mid")
	if err := ctrl.Export(g, path); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if ctrl.State() != Idle {
		t.Fatalf("export must not start playback")
	}

	back, err := ctrl.Import(path, false)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if back != g {
		t.Fatalf("imported grid mismatch:\n%s", back)
	}
	if ctrl.State() != Playing || !dev.running {
		t.Fatalf("import should restart playback")
	}

	if _, err := ctrl.Import(filepath.Join(t.TempDir(), "missing.mid"), false); err == nil {
		t.Fatalf("expected error for a missing file")
	}
	if ctrl.Grid() != g {
		t.Fatalf("failed import changed the grid")
	}
}
