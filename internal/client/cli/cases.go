package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zentesthq/zentest/internal/client/view"
	"github.com/zentesthq/zentest/internal/models"
)

// search and status filter applied to both case listings. They persist
// across commands until changed with 'search' / 'filter'.
func (a *App) currentFilters() (string, string) {
	return a.search, a.filterStatus
}

func (a *App) setSearch(args []string) {
	a.search = strings.Join(args, " ")
	if a.search == "" {
		fmt.Println("Search cleared.")
	}
}

func (a *App) setFilter(args []string) {
	if len(args) == 0 {
		a.filterStatus = view.FilterAll
		fmt.Println("Status filter cleared.")
		return
	}
	want := args[0]
	for _, s := range models.Statuses {
		if strings.EqualFold(string(s), want) {
			a.filterStatus = string(s)
			return
		}
	}
	fmt.Println("Unknown status:", want)
	fmt.Println("Valid statuses: Pending, Passed, Failed, Blocked, Skipped")
}

func (a *App) listCases(ctx context.Context) {
	search, filter := a.currentFilters()
	cases := view.FilterCases(a.store.Cases(), search, filter)
	if len(cases) == 0 {
		fmt.Println("No test cases match.")
		return
	}
	for _, c := range cases {
		mark := " "
		if a.selected[c.ID] {
			mark = "x"
		}
		auto := "  "
		if c.HasAutomation {
			auto = "@ "
		}
		fmt.Printf("[%s] %s %s%-8s ", mark, c.ID, auto, c.Priority)
		statusColor(c.Status).Printf("%-8s", c.Status)
		fmt.Printf(" %s\n", c.Title)
	}
}

func (a *App) showCase(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: show <case-id>")
		return
	}
	c, ok := a.store.CaseByID(args[0])
	if !ok {
		fmt.Println("Unknown case:", args[0])
		return
	}

	headerText.Printf("%s %s\n", c.ID, c.Title)
	fmt.Println("Module:  ", moduleName(c.Module))
	fmt.Println("Priority:", c.Priority)
	fmt.Print("Status:   ")
	statusColor(c.Status).Println(string(c.Status))
	if len(c.Steps) > 0 {
		fmt.Println("Steps:")
		n := 0
		for _, s := range c.Steps {
			if strings.TrimSpace(s) == "" {
				continue
			}
			n++
			fmt.Printf("  %d. %s\n", n, s)
		}
	}
	if c.Expected != "" {
		fmt.Println("Expected:", c.Expected)
	}
	if c.HasAutomation {
		fmt.Println("Automation script:")
		fmt.Println(c.Script)
	}
	if c.LastUpdatedByName != "" {
		dimText.Printf("Last updated by %s at %s\n", c.LastUpdatedByName,
			time.UnixMilli(c.Timestamp).Format(time.RFC822))
	}
}

func moduleName(m string) string {
	if m == "" {
		return "Unassigned"
	}
	return m
}

func (a *App) addCase(ctx context.Context) {
	if a.store.ActiveProjectID() == "" {
		fmt.Println("No active project.")
		return
	}

	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil || title == "" {
		return
	}
	module, err := getSimpleText(a.reader, "Module name (empty for Unassigned)", os.Stdout)
	if err != nil {
		return
	}
	priority, err := getSimpleText(a.reader, "Priority (Low/Medium/High/Critical)", os.Stdout)
	if err != nil {
		return
	}
	steps, err := GetLines(a.reader, "Steps, one per line", os.Stdout)
	if err != nil {
		return
	}
	expected, err := getSimpleText(a.reader, "Expected result", os.Stdout)
	if err != nil {
		return
	}
	script, err := GetMultiline(a.reader, "Automation script (empty for manual case)", os.Stdout)
	if err != nil {
		return
	}

	c := models.TestCase{
		ProjectID: a.store.ActiveProjectID(),
		Title:     title,
		Module:    module,
		Priority:  parsePriority(priority),
		Steps:     steps,
		Expected:  expected,
		Script:    script,
	}
	id, err := a.backend.SaveCase(ctx, c, true, a.identity())
	if err != nil {
		a.log.Error(ctx, "saving case", "error", err)
		return
	}
	fmt.Println("Created", id)
}

func parsePriority(s string) models.Priority {
	for _, p := range []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical} {
		if strings.EqualFold(string(p), s) {
			return p
		}
	}
	return models.PriorityMedium
}

func (a *App) editScript(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: script <case-id>")
		return
	}
	c, ok := a.store.CaseByID(args[0])
	if !ok {
		fmt.Println("Unknown case:", args[0])
		return
	}
	script, err := GetMultiline(a.reader, "Automation script (empty removes automation)", os.Stdout)
	if err != nil {
		return
	}
	c.Script = script
	if _, err := a.backend.SaveCase(ctx, c, false, a.identity()); err != nil {
		a.log.Error(ctx, "saving script", "error", err)
	}
}

func (a *App) deleteCase(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: delete <case-id>")
		return
	}
	if err := a.backend.DeleteCase(ctx, args[0]); err != nil {
		a.log.Error(ctx, "deleting case", "error", err)
	}
	delete(a.selected, args[0])
}

func (a *App) setStatus(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: status <case-id> <Pending|Passed|Failed|Blocked|Skipped>")
		return
	}
	id := args[0]
	var status models.Status
	for _, s := range models.Statuses {
		if strings.EqualFold(string(s), args[1]) {
			status = s
		}
	}
	if status == "" {
		fmt.Println("Unknown status:", args[1])
		return
	}

	var err error
	if strings.HasPrefix(id, "API-") {
		err = a.backend.UpdateAPIStatus(ctx, id, status, a.identity())
	} else {
		err = a.backend.UpdateStatus(ctx, id, status, a.identity())
	}
	if err != nil {
		a.log.Error(ctx, "updating status", "error", err)
	}
}

// toggleSelect marks or unmarks cases for the next bulk run. "all" toggles
// every automated case in the current listing.
func (a *App) toggleSelect(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: select <case-id>|all|none")
		return
	}
	switch args[0] {
	case "all":
		for _, c := range a.store.Cases() {
			if c.HasAutomation {
				a.selected[c.ID] = true
			}
		}
	case "none":
		a.selected = make(map[string]bool)
	default:
		for _, id := range args {
			if _, ok := a.store.CaseByID(id); !ok {
				fmt.Println("Unknown case:", id)
				continue
			}
			if a.selected[id] {
				delete(a.selected, id)
			} else {
				a.selected[id] = true
			}
		}
	}
	fmt.Printf("%d case(s) selected.\n", len(a.selected))
}

func (a *App) deleteSelected(ctx context.Context) {
	if len(a.selected) == 0 {
		fmt.Println("Nothing selected.")
		return
	}
	confirm, err := getSimpleText(a.reader, fmt.Sprintf("Delete %d selected case(s)? (yes/no)", len(a.selected)), os.Stdout)
	if err != nil || confirm != "yes" {
		return
	}
	ids := make([]string, 0, len(a.selected))
	for id := range a.selected {
		ids = append(ids, id)
	}
	if err := a.backend.BulkDeleteCases(ctx, ids); err != nil {
		a.log.Error(ctx, "bulk delete", "error", err)
	}
	a.selected = make(map[string]bool)
}
