package shared

import "fmt"

type Event int

const (
	Quit Event = iota
	Start
	Stop
	TempoUp
	TempoDown
	Save
	Restore
	Export
	Import
	Error
	GridUpdate
	TempoNotify
	PlayNotify
)

func (e Event) String() string {
	switch e {
	case Quit:
		return "quit"
	case Start:
		return "start"
	case Stop:
		return "stop"
	case TempoUp:
		return "tempo+"
	case TempoDown:
		return "tempo-"
	case Save:
		return "save"
	case Restore:
		return "restore"
	case Export:
		return "export"
	case Import:
		return "import"
	case Error:
		return "error"
	case GridUpdate:
		return "grid"
	case TempoNotify:
		return "tempo"
	case PlayNotify:
		return "play"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Message travels between the UI collaborator and the control loop.
// Grid is a copy: the receiver never sees later edits made by the sender.
type Message struct {
	Type    Event
	Number  int
	Boolean bool
	String  string
	Float   float64
	Grid    Grid
}

const DEFAULT_BPM = float64(120)

const DEFAULT_STATE_FILE = "Checkbox.yaml"
