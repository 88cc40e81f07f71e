package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/zentesthq/zentest/internal/models"
)

var (
	successText = color.New(color.FgGreen)
	errorText   = color.New(color.FgRed)
	headerText  = color.New(color.FgCyan, color.Bold)
	dimText     = color.New(color.Faint)
)

// printLogEntry renders one simulator log line, colored by entry type.
func (a *App) printLogEntry(e models.LogEntry) {
	switch e.Type {
	case models.LogSuccess:
		successText.Fprintln(a.out, e.Msg)
	case models.LogError:
		errorText.Fprintln(a.out, e.Msg)
	default:
		fmt.Fprintln(a.out, e.Msg)
	}
}

func statusColor(s models.Status) *color.Color {
	switch s {
	case models.StatusPassed:
		return color.New(color.FgGreen)
	case models.StatusFailed:
		return color.New(color.FgRed)
	case models.StatusBlocked:
		return color.New(color.FgYellow)
	case models.StatusSkipped:
		return color.New(color.Faint)
	default:
		return color.New(color.FgWhite)
	}
}
