// Package export renders case collections as CSV documents. The output is
// BOM-prefixed UTF-8 so spreadsheet tools pick the encoding up correctly.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zentesthq/zentest/internal/models"
)

// BOM is the UTF-8 byte-order mark every export starts with.
const BOM = "\ufeff"

var functionalHeaders = []string{
	"ID", "Module", "Title", "Priority", "Status", "Steps", "Expected Result", "Has Automation",
}

var apiHeaders = []string{
	"ID", "Module", "Title", "Method", "URL", "Priority", "Status", "Expected Status", "Round",
}

// quote wraps s in double quotes, doubling any embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// numberedSteps renders non-blank steps as "1. ...", newline-joined, as a
// single CSV cell.
func numberedSteps(steps []string) string {
	var lines []string
	for _, s := range steps {
		if strings.TrimSpace(s) == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s", len(lines)+1, s))
	}
	return strings.Join(lines, "\n")
}

func moduleOrUnassigned(module string) string {
	if module == "" {
		return "Unassigned"
	}
	return module
}

// FunctionalCSV renders the functional-case view.
func FunctionalCSV(cases []models.TestCase) string {
	rows := []string{strings.Join(functionalHeaders, ",")}
	for _, c := range cases {
		auto := "No"
		if c.HasAutomation {
			auto = "Yes"
		}
		row := []string{
			c.ID,
			moduleOrUnassigned(c.Module),
			quote(c.Title),
			string(c.Priority),
			string(c.Status),
			quote(numberedSteps(c.Steps)),
			quote(c.Expected),
			auto,
		}
		rows = append(rows, strings.Join(row, ","))
	}
	return BOM + strings.Join(rows, "\n")
}

// APICSV renders the API-case view.
func APICSV(cases []models.APITestCase) string {
	rows := []string{strings.Join(apiHeaders, ",")}
	for _, c := range cases {
		round := c.Round
		if round == 0 {
			round = 1
		}
		row := []string{
			c.ID,
			moduleOrUnassigned(c.Module),
			quote(c.Title),
			c.Method,
			quote(c.URL),
			string(c.Priority),
			string(c.Status),
			strconv.Itoa(c.ExpectedStatus),
			strconv.Itoa(round),
		}
		rows = append(rows, strings.Join(row, ","))
	}
	return BOM + strings.Join(rows, "\n")
}

// FileName builds the download name {project}_{viewtype}_{ISO-date}.csv.
func FileName(project, viewType string, now time.Time) string {
	if project == "" {
		project = "export"
	}
	return fmt.Sprintf("%s_%s_%s.csv", project, viewType, now.Format("2006-01-02"))
}
