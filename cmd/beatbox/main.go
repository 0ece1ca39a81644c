package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	. "github.com/JeanRibes/beatbox/shared"

	"github.com/JeanRibes/beatbox/config"
	"github.com/JeanRibes/beatbox/music"
	"github.com/JeanRibes/beatbox/ui"
	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	configFile := flag.String("config", config.DEFAULT_FILE, "YAML configuration file")
	outPort := flag.String("output", "", "MIDI output port name (overrides the config)")
	stateFile := flag.String("state", "", "file used by SAVE and RESTORE (overrides the config)")
	flag.Parse()

	conf, err := config.Load(*configFile)
	logger := conf.Logger("beatbox")
	if err != nil {
		logger.Fatal("bad config", "file", *configFile, "err", err)
	}
	if *outPort != "" {
		conf.Output = *outPort
	}
	if *stateFile != "" {
		conf.StateFile = *stateFile
	}

	defer midi.CloseDriver()
	out, err := midi.FindOutPort(conf.Output)
	if err != nil {
		logger.Warn("can't find output, opening a virtual one", "name", conf.Output)
		out, err = drivers.Get().(*rtmididrv.Driver).OpenVirtualOut("beatbox")
		if err != nil {
			logger.Fatal(err)
		}
	}
	logger.Info("output", "port", out.String())

	device := music.NewPortSequencer(out, conf.Logger("player"))
	defer device.Close()
	ctrl, err := music.NewController(device, music.NewGridStore(conf.StateFile), music.Options{
		BPM:    conf.BPM,
		Logger: conf.Logger("controller"),
	})
	if err != nil {
		logger.Fatal("sequencer unavailable", "err", err)
	}

	recent, err := config.LoadRecent(conf.RecentFiles)
	if err != nil {
		logger.Warn("ignoring recent files", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = charmlog.WithContext(ctx, conf.Logger("loop"))

	SinkLoop := make(chan Message, 16)
	SinkUI := make(chan Message, 16)
	done := make(chan struct{})
	go func() {
		music.Run(ctx, ctrl, SinkLoop, SinkUI)
		close(done)
		cancel()
	}()

	go func() {
		signalCh := make(chan os.Signal, 1)
		signal.Notify(signalCh, os.Interrupt)
		<-signalCh
		logger.Info("interrupt")
		SinkLoop <- Message{Type: Quit}
	}()

	ui.Run(ctx, conf.Logger("UI"), recent, conf.BPM, SinkUI, SinkLoop)
	cancel()
	<-done
}
