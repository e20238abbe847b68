package broadcast

import (
	"context"
	"time"

	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
)

// Envelope is the frame pushed to observers
type Envelope struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

// ThreatMessage is the periodic heartbeat frame
type ThreatMessage struct {
	Type    string `json:"type"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Heartbeat is the frame sent on every heartbeat tick
var Heartbeat = ThreatMessage{
	Type:    "threat",
	Level:   "L3",
	Message: "Rising sentiment anomaly detected",
}

// Broadcaster writes log events to the console and pushes them to the hub
type Broadcaster struct {
	hub *Hub
	log logger.Logger
	now func() time.Time
}

// New creates a Broadcaster. A nil hub makes Emit console-only.
func New(hub *Hub, log logger.Logger) *Broadcaster {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Broadcaster{hub: hub, log: log, now: time.Now}
}

// Emit logs one event. It never fails: observers that cannot take the
// event are dropped by the hub.
func (b *Broadcaster) Emit(level model.LogLevel, message string, fields map[string]interface{}) {
	switch level {
	case model.LevelDebug:
		b.log.Debug(message, fields)
	case model.LevelWarn:
		b.log.Warn(message, fields)
	case model.LevelError:
		b.log.Error(message, fields)
	default:
		b.log.Info(message, fields)
	}

	if b.hub == nil || b.hub.Len() == 0 {
		return
	}

	event := model.NewLogEvent(b.now(), level, message, fields)
	_, _ = b.hub.BroadcastJSON(Envelope{Type: "log", Payload: event})
}

func (b *Broadcaster) Debug(message string, fields map[string]interface{}) {
	b.Emit(model.LevelDebug, message, fields)
}

func (b *Broadcaster) Info(message string, fields map[string]interface{}) {
	b.Emit(model.LevelInfo, message, fields)
}

func (b *Broadcaster) Warn(message string, fields map[string]interface{}) {
	b.Emit(model.LevelWarn, message, fields)
}

func (b *Broadcaster) Error(message string, fields map[string]interface{}) {
	b.Emit(model.LevelError, message, fields)
}

// RunHeartbeat pushes the threat frame every interval until ctx is done.
// A non-positive interval returns immediately.
func RunHeartbeat(ctx context.Context, hub *Hub, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = hub.BroadcastJSON(Heartbeat)
		}
	}
}
