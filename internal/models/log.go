package models

type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogError   LogType = "error"
)

// LogEntry is one line of the execution log stream. The stream is
// append-only and reset at the start of every run.
type LogEntry struct {
	Msg  string  `json:"msg"`
	Type LogType `json:"type"`
}
