// Package mockdata holds the static fixture set used in guest/preview mode.
// The fixtures stand in for persisted data when no backend is configured or
// the active identity is the local guest.
package mockdata

import "github.com/zentesthq/zentest/internal/models"

// Projects returns the demo project catalog. Callers receive a fresh copy
// and may mutate it freely.
func Projects() []models.Project {
	return []models.Project{
		{ID: "demo-1", Name: "ZenTest Demo", Color: "#3b82f6", Initial: "ZD", Owner: models.GuestUID},
		{ID: "demo-2", Name: "Mobile App", Color: "#10b981", Initial: "MA", Owner: models.GuestUID},
	}
}

func Modules() []models.Module {
	return []models.Module{
		{ID: "mod-1", ProjectID: "demo-1", Name: "Authentication"},
		{ID: "mod-2", ProjectID: "demo-1", Name: "Checkout"},
		{ID: "mod-3", ProjectID: "demo-2", Name: "Onboarding"},
	}
}

func Cases(now int64) []models.TestCase {
	return []models.TestCase{
		{
			ID: "TC-1001", ProjectID: "demo-1",
			Title:  "Verify user login with valid credentials",
			Module: "Authentication", Priority: models.PriorityCritical, Status: models.StatusPassed,
			Steps:         []string{"Navigate to /login", "Enter valid email", "Enter valid password", "Click Submit"},
			Expected:      "Dashboard loads",
			Script:        "// Mock automation\nawait login(\"user\", \"pass\");",
			HasAutomation: true, Timestamp: now,
		},
		{
			ID: "TC-1002", ProjectID: "demo-1",
			Title:  "Forgot password flow",
			Module: "Authentication", Priority: models.PriorityHigh, Status: models.StatusPending,
			Steps:     []string{"Click Forgot Password", "Enter email"},
			Expected:  "Reset link sent",
			Timestamp: now,
		},
		{
			ID: "TC-1003", ProjectID: "demo-1",
			Title:  "Cart calculation verification",
			Module: "Checkout", Priority: models.PriorityMedium, Status: models.StatusFailed,
			Steps:         []string{"Add Item A", "Add Item B", "Check Total"},
			Expected:      "Total = A + B",
			Script:        "const total = cart.total();\nexpect(total).toBe(50.00);",
			HasAutomation: true, Timestamp: now,
		},
	}
}

func APICases(now int64) []models.APITestCase {
	return []models.APITestCase{
		{
			ID: "API-1001", ProjectID: "demo-1",
			Title:  "List todos returns seeded items",
			Module: "Checkout", Priority: models.PriorityHigh, Status: models.StatusPassed,
			Method: "GET", URL: "http://localhost:3100/api/todos",
			Headers:        []models.Header{{Key: "Accept", Value: "application/json"}},
			ExpectedStatus: 200, Round: 1, Timestamp: now,
		},
		{
			ID: "API-1002", ProjectID: "demo-1",
			Title:  "Create todo",
			Module: "Checkout", Priority: models.PriorityMedium, Status: models.StatusPending,
			Method: "POST", URL: "http://localhost:3100/api/todos",
			Headers:        []models.Header{{Key: "Content-Type", Value: "application/json"}},
			Body:           `{"task":"Buy milk"}`,
			ExpectedStatus: 201, Round: 1, Timestamp: now,
		},
	}
}
