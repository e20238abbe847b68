package model

import "time"

// LogLevel is the severity of a LogEvent
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// LogTimeLayout formats LogEvent timestamps in local time
const LogTimeLayout = "2006-01-02 15:04:05"

// NewLogEvent builds the flat map broadcast to observers.
// Extra fields are merged in but cannot override ts, level or message.
func NewLogEvent(now time.Time, level LogLevel, message string, fields map[string]interface{}) map[string]interface{} {
	event := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		event[k] = v
	}
	event["ts"] = now.Local().Format(LogTimeLayout)
	event["level"] = string(level)
	event["message"] = message
	return event
}
