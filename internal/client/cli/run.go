package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/zentesthq/zentest/internal/common"
)

// runCase simulates one case, functional or API depending on the id prefix.
// The log stream is printed live through the runner's sink.
func (a *App) runCase(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: run <case-id>")
		return
	}
	id := args[0]

	if strings.HasPrefix(id, "API-") {
		c, ok := a.store.APICaseByID(id)
		if !ok {
			fmt.Println("Unknown API case:", id)
			return
		}
		if _, err := a.runner.RunAPI(ctx, c, a.identity()); err != nil {
			a.reportRunError(ctx, err)
		}
		return
	}

	c, ok := a.store.CaseByID(id)
	if !ok {
		fmt.Println("Unknown case:", id)
		return
	}
	if !c.HasAutomation {
		fmt.Println("Case has no automation script; record one with 'script'.")
		return
	}
	if _, err := a.runner.Run(ctx, c, a.identity()); err != nil {
		a.reportRunError(ctx, err)
	}
}

// runBulk executes every selected automated case sequentially with a
// progress bar. The per-case log lines go through the sink as usual.
// A completed run always clears the selection marks.
func (a *App) runBulk(ctx context.Context) {
	if len(a.selected) == 0 {
		fmt.Println("Nothing selected. Use 'select all' first.")
		return
	}

	total := 0
	for _, c := range a.store.Cases() {
		if a.selected[c.ID] && c.HasAutomation {
			total++
		}
	}
	if total == 0 {
		fmt.Println("None of the selected cases has automation.")
		return
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(a.out),
		progressbar.OptionSetDescription("bulk run"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	a.runner.Progress = func(done, passed, failed, total int) {
		_ = bar.Add(1)
	}
	defer func() { a.runner.Progress = nil }()

	res, err := a.runner.RunBulk(ctx, a.store.Cases(), a.selected, a.identity())
	if err != nil {
		a.reportRunError(ctx, err)
		return
	}
	a.selected = make(map[string]bool)

	if res.Total > 0 {
		if res.Passed == res.Total {
			successText.Printf("All %d case(s) passed.\n", res.Total)
		} else {
			errorText.Printf("%d of %d case(s) failed.\n", res.Total-res.Passed, res.Total)
		}
	}
}

func (a *App) reportRunError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, common.ErrRunInProgress) {
		fmt.Println("A run is already in progress.")
		return
	}
	a.log.Error(ctx, "run failed", "error", err)
}
