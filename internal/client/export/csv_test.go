package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentesthq/zentest/internal/models"
)

func TestFunctionalCSV_Golden(t *testing.T) {
	cases := []models.TestCase{
		{
			ID:       "TC-1001",
			Module:   "Authentication",
			Title:    `Login with "remember me"`,
			Priority: models.PriorityCritical,
			Status:   models.StatusPassed,
			Steps:    []string{"Open /login", "", "Tick checkbox"},
			Expected: "Session persists\nacross restarts",
			Script:   "await page.goto('/');",
		},
		{
			ID:       "TC-1002",
			Title:    "Orphan case",
			Priority: models.PriorityLow,
			Status:   models.StatusPending,
		},
	}
	cases[0].RecomputeAutomation()

	want := BOM +
		"ID,Module,Title,Priority,Status,Steps,Expected Result,Has Automation\n" +
		"TC-1001,Authentication,\"Login with \"\"remember me\"\"\",Critical,Passed,\"1. Open /login\n2. Tick checkbox\",\"Session persists\nacross restarts\",Yes\n" +
		"TC-1002,Unassigned,\"Orphan case\",Low,Pending,\"\",\"\",No"

	assert.Equal(t, want, FunctionalCSV(cases))
}

func TestFunctionalCSV_EmptyHasHeaderOnly(t *testing.T) {
	got := FunctionalCSV(nil)
	require.True(t, strings.HasPrefix(got, BOM))
	assert.Equal(t, "ID,Module,Title,Priority,Status,Steps,Expected Result,Has Automation",
		strings.TrimPrefix(got, BOM))
}

func TestAPICSV_Golden(t *testing.T) {
	cases := []models.APITestCase{
		{
			ID:             "API-1001",
			Module:         "Checkout",
			Title:          "List todos",
			Method:         "GET",
			URL:            "http://localhost:3100/api/todos?limit=10",
			Priority:       models.PriorityHigh,
			Status:         models.StatusPassed,
			ExpectedStatus: 200,
			Round:          2,
		},
		{
			ID:             "API-1002",
			Title:          "Create todo",
			Method:         "POST",
			URL:            "http://localhost:3100/api/todos",
			Priority:       models.PriorityMedium,
			Status:         models.StatusPending,
			ExpectedStatus: 201,
			// Round zero renders as 1
		},
	}

	want := BOM +
		"ID,Module,Title,Method,URL,Priority,Status,Expected Status,Round\n" +
		"API-1001,Checkout,\"List todos\",GET,\"http://localhost:3100/api/todos?limit=10\",High,Passed,200,2\n" +
		"API-1002,Unassigned,\"Create todo\",POST,\"http://localhost:3100/api/todos\",Medium,Pending,201,1"

	assert.Equal(t, want, APICSV(cases))
}

func TestNumberedStepsSkipBlanks(t *testing.T) {
	got := numberedSteps([]string{"", "first", "   ", "second"})
	assert.Equal(t, "1. first\n2. second", got)
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "ZenTest Demo_functional_2026-08-30.csv", FileName("ZenTest Demo", "functional", now))
	assert.Equal(t, "export_api_2026-08-30.csv", FileName("", "api", now))
}
