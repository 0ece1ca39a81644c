package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"

	. "github.com/JeanRibes/beatbox/shared"

	"github.com/JeanRibes/beatbox/config"
	"github.com/JeanRibes/beatbox/music"
	"github.com/albenik/go-serial/v2"
	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	configFile := flag.String("config", config.DEFAULT_FILE, "YAML configuration file")
	portName := flag.String("port", "", "serial port, e.g. /dev/ttyUSB0 (overrides the config)")
	keymapFile := flag.String("keymap", "", "keymap file, one 'code:action' per line (overrides the config)")
	outPort := flag.String("output", "", "MIDI output port name (overrides the config)")
	flag.Parse()

	conf, err := config.Load(*configFile)
	logger := conf.Logger("serial")
	if err != nil {
		logger.Fatal("bad config", "file", *configFile, "err", err)
	}
	if *portName != "" {
		conf.Serial.Port = *portName
	}
	if *keymapFile != "" {
		conf.Serial.Keymap = *keymapFile
	}
	if *outPort != "" {
		conf.Output = *outPort
	}

	keymap, err := LoadKeymap(conf.Serial.Keymap)
	if err != nil {
		logger.Fatal("keymap", "file", conf.Serial.Keymap, "err", err)
	}

	ports, err := serial.GetPortsList()
	if err != nil {
		logger.Fatal(err)
	}
	if len(ports) == 0 {
		logger.Fatal("No serial ports found!")
	}
	for _, port := range ports {
		logger.Debug("found port", "name", port)
	}
	if conf.Serial.Port == "" {
		conf.Serial.Port = ports[0]
	}
	port, err := serial.Open(conf.Serial.Port, serial.WithBaudrate(conf.Serial.Baud))
	if err != nil {
		logger.Fatal("serial", "port", conf.Serial.Port, "err", err)
	}
	defer port.Close()

	defer midi.CloseDriver()
	out, err := midi.FindOutPort(conf.Output)
	if err != nil {
		logger.Warn("can't find output, opening a virtual one", "name", conf.Output)
		out, err = drivers.Get().(*rtmididrv.Driver).OpenVirtualOut("serial-pads")
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = charmlog.WithContext(ctx, conf.Logger("loop"))

	pads := NewPads(keymap)
	SinkLoop := make(chan Message, 16)
	SinkUI := make(chan Message, 16)
	done := make(chan struct{})
	go func() {
		music.Run(ctx, ctrl, SinkLoop, SinkUI)
		close(done)
	}()
	go replies(ctx, logger, pads, SinkUI)
	go read(logger, port, pads, SinkLoop)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt)
	select {
	case <-signalCh:
		logger.Info("interrupt")
		SinkLoop <- Message{Type: Quit}
	case <-done:
	}
	<-done
}

// read forwards pad presses from the serial port, two bytes per frame.
func read(logger *charmlog.Logger, port io.Reader, pads *Pads, SinkLoop chan<- Message) {
	if r, ok := port.(interface{ ResetInputBuffer() error }); ok {
		if err := r.ResetInputBuffer(); err != nil {
			logger.Warn("reset input buffer", "err", err)
		}
	}
	buf := make([]byte, 2)
	for {
		if _, err := io.ReadFull(port, buf); err != nil {
			logger.Error("serial read", "err", err)
			SinkLoop <- Message{Type: Quit}
			return
		}
		if msg, ok := pads.Handle(buf[0], buf[1]); ok {
			logger.Debug("pad", "code", buf[1], "event", msg.Type)
			SinkLoop <- msg
		}
	}
}

func replies(ctx context.Context, logger *charmlog.Logger, pads *Pads, SinkUI <-chan Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-SinkUI:
			switch msg.Type {
			case GridUpdate:
				pads.SetGrid(msg.Grid)
				logger.Info("grid restored", "cells", msg.Grid.Count())
			case TempoNotify:
				logger.Info("tempo", "factor", msg.Float)
			case PlayNotify:
				logger.Info("playing", "on", msg.Boolean)
			case Error:
				logger.Error(msg.String)
			}
		}
	}
}
