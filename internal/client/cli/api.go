package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zentesthq/zentest/internal/client/view"
	"github.com/zentesthq/zentest/internal/models"
)

func (a *App) listAPICases(ctx context.Context) {
	search, filter := a.currentFilters()
	cases := view.FilterAPICases(a.store.APICases(), search, filter)
	if len(cases) == 0 {
		fmt.Println("No API cases match.")
		return
	}
	for _, c := range cases {
		fmt.Printf("%s  %-6s %-40s ", c.ID, c.Method, c.URL)
		statusColor(c.Status).Printf("%-8s", c.Status)
		fmt.Printf(" %s\n", c.Title)
	}
}

func (a *App) showAPICase(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: showapi <case-id>")
		return
	}
	c, ok := a.store.APICaseByID(args[0])
	if !ok {
		fmt.Println("Unknown API case:", args[0])
		return
	}

	headerText.Printf("%s %s\n", c.ID, c.Title)
	fmt.Printf("%s %s\n", c.Method, c.URL)
	for _, h := range c.Headers {
		fmt.Printf("  %s: %s\n", h.Key, h.Value)
	}
	if c.Body != "" {
		fmt.Println("Body:", c.Body)
	}
	fmt.Println("Expected status:", c.ExpectedStatus)
	if c.ExpectedBody != "" {
		fmt.Println("Expected body:", c.ExpectedBody)
	}
	fmt.Print("Status: ")
	statusColor(c.Status).Println(string(c.Status))
}

func (a *App) addAPICase(ctx context.Context) {
	if a.store.ActiveProjectID() == "" {
		fmt.Println("No active project.")
		return
	}

	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil || title == "" {
		return
	}
	method, err := getSimpleText(a.reader, "Method (GET/POST/PUT/PATCH/DELETE)", os.Stdout)
	if err != nil {
		return
	}
	url, err := getSimpleText(a.reader, "URL", os.Stdout)
	if err != nil || url == "" {
		return
	}
	headers, err := GetLines(a.reader, "Headers in the form Key: Value, one per line", os.Stdout)
	if err != nil {
		return
	}
	body, err := GetMultiline(a.reader, "Request body (empty for none)", os.Stdout)
	if err != nil {
		return
	}
	expectedRaw, err := getSimpleText(a.reader, "Expected status code", os.Stdout)
	if err != nil {
		return
	}
	expected, err := strconv.Atoi(expectedRaw)
	if err != nil {
		expected = 200
	}

	c := models.APITestCase{
		ProjectID:      a.store.ActiveProjectID(),
		Title:          title,
		Method:         strings.ToUpper(method),
		URL:            url,
		Headers:        parseHeaders(headers),
		Body:           body,
		Priority:       models.PriorityMedium,
		ExpectedStatus: expected,
		Round:          1,
	}
	id, err := a.backend.SaveAPICase(ctx, c, true, a.identity())
	if err != nil {
		a.log.Error(ctx, "saving API case", "error", err)
		return
	}
	fmt.Println("Created", id)
}

func parseHeaders(lines []string) []models.Header {
	out := make([]models.Header, 0, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		out = append(out, models.Header{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
	}
	return out
}

func (a *App) deleteAPICase(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: delapi <case-id>")
		return
	}
	if err := a.backend.DeleteAPICase(ctx, args[0]); err != nil {
		a.log.Error(ctx, "deleting API case", "error", err)
	}
}
