package music

import (
	"context"
	"strings"

	. "github.com/JeanRibes/beatbox/shared"

	charmlog "github.com/charmbracelet/log"
)

// Run is the single control thread: it applies the UI's messages to ctrl one
// at a time and reports back on SinkUI. It returns on Quit or when ctx ends,
// leaving playback stopped.
func Run(ctx context.Context, ctrl *Controller, SinkLoop <-chan Message, SinkUI chan<- Message) {
	logger := charmlog.FromContext(ctx).WithPrefix("loop")
	logger.Info("start")
	defer func() {
		ctrl.Stop()
		logger.Info("stop")
	}()

	reportErr := func(err error) {
		logger.Error(err)
		SinkUI <- Message{Type: Error, String: err.Error()}
	}

	for {
		select {
		case <-ctx.Done():
			logger.Debug("context Done")
			return
		case msg := <-SinkLoop:
			logger.Debug("received", "type", msg.Type)
			switch msg.Type {
			case Quit:
				return
			case Start:
				if err := ctrl.Start(msg.Grid); err != nil {
					reportErr(err)
					continue
				}
				SinkUI <- Message{Type: PlayNotify, Boolean: true}
				SinkUI <- Message{Type: TempoNotify, Float: ctrl.TempoFactor()}
			case Stop:
				ctrl.Stop()
				SinkUI <- Message{Type: PlayNotify, Boolean: false}
			case TempoUp:
				SinkUI <- Message{Type: TempoNotify, Float: ctrl.TempoUp()}
			case TempoDown:
				SinkUI <- Message{Type: TempoNotify, Float: ctrl.TempoDown()}
			case Save:
				if err := ctrl.Save(msg.Grid); err != nil {
					reportErr(err)
				}
			case Restore:
				grid, err := ctrl.Restore()
				if err != nil {
					reportErr(err)
					continue
				}
				SinkUI <- Message{Type: GridUpdate, Grid: grid}
				SinkUI <- Message{Type: PlayNotify, Boolean: true}
				SinkUI <- Message{Type: TempoNotify, Float: ctrl.TempoFactor()}
			case Export:
				fileName := msg.String
				if !strings.HasSuffix(fileName, ".mid") {
					fileName += ".mid"
				}
				if err := ctrl.Export(msg.Grid, fileName); err != nil {
					reportErr(err)
				}
			case Import:
				grid, err := ctrl.Import(msg.String, msg.Boolean)
				if err != nil {
					reportErr(err)
					continue
				}
				SinkUI <- Message{Type: GridUpdate, Grid: grid}
				SinkUI <- Message{Type: PlayNotify, Boolean: true}
				SinkUI <- Message{Type: TempoNotify, Float: ctrl.TempoFactor()}
			default:
				logger.Warn("unknown message type", "type", msg.Type)
			}
		}
	}
}
