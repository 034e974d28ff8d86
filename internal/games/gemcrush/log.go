package gemcrush

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/gemcrush/internal/match3"
)

// logger receives session lifecycle and cascade events.
var logger = log.New(io.Discard)

// SetLogger sets the logger used by new sessions.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// LogListener writes engine events to a logger at debug level.
type LogListener struct {
	log *log.Logger
}

// NewLogListener creates a listener that logs to l.
func NewLogListener(l *log.Logger) *LogListener {
	return &LogListener{log: l}
}

// OnEvent implements match3.Listener.
func (l *LogListener) OnEvent(ev match3.Event) {
	switch e := ev.(type) {
	case match3.CellChanged, match3.TileFell, match3.TileSpawned, match3.TileDestroyed:
		// Too chatty even for debug.
	case match3.MatchFound:
		sizes := make([]int, len(e.Groups))
		for i, g := range e.Groups {
			sizes[i] = len(g)
		}
		l.log.Debug("match found", "depth", e.Depth, "groups", sizes)
	case match3.TilePromoted:
		l.log.Debug("tile promoted", "at", e.At, "effect", e.Effect)
	case match3.EffectTriggered:
		l.log.Debug("effect triggered", "at", e.At, "effect", e.Effect)
	case match3.CascadeComplete:
		l.log.Debug("cascade complete", "depth", e.Depth)
	case match3.MoveRejected:
		l.log.Debug("move rejected", "a", e.A, "b", e.B, "reason", e.Reason)
	case match3.NoMatch:
		l.log.Debug("no match")
	default:
		l.log.Debug(match3.Describe(ev))
	}
}
