package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/zentesthq/zentest/internal/client/export"
	"github.com/zentesthq/zentest/internal/client/script"
	"github.com/zentesthq/zentest/internal/client/view"
)

// exportCSV writes the current (filtered) view to a CSV file in the
// working directory.
func (a *App) exportCSV(ctx context.Context, args []string) {
	viewType := "functional"
	if len(args) > 0 {
		viewType = args[0]
	}

	project, _ := a.store.ActiveProject()
	search, filter := a.currentFilters()

	var content string
	switch viewType {
	case "functional":
		content = export.FunctionalCSV(view.FilterCases(a.store.Cases(), search, filter))
	case "api":
		content = export.APICSV(view.FilterAPICases(a.store.APICases(), search, filter))
	default:
		fmt.Println("Usage: export [functional|api]")
		return
	}

	name := export.FileName(project.Name, viewType, time.Now())
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		a.log.Error(ctx, "writing export file", "file", name, "error", err)
		return
	}
	fmt.Println("Exported", name)
}

// genScript turns a JSON recording of browser actions into a Playwright
// script on stdout. The recording format matches what the browser
// extension captures.
func (a *App) genScript(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: genscript <recording.json>")
		return
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		a.log.Error(ctx, "reading recording", "file", args[0], "error", err)
		return
	}
	var steps []script.Step
	if err := json.Unmarshal(data, &steps); err != nil {
		a.log.Error(ctx, "decoding recording", "file", args[0], "error", err)
		return
	}
	fmt.Fprintln(a.out, script.Generate(steps))
}
