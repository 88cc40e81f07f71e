package models

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

type Status string

const (
	StatusPending Status = "Pending"
	StatusPassed  Status = "Passed"
	StatusFailed  Status = "Failed"
	StatusBlocked Status = "Blocked"
	StatusSkipped Status = "Skipped"
)

// Statuses lists every case status in presentation order.
var Statuses = []Status{StatusPending, StatusPassed, StatusFailed, StatusBlocked, StatusSkipped}

// TestCase is a manual or automated functional scenario.
//
// Module holds the module's display name (denormalized, see Module).
// HasAutomation is derived from Script and is recomputed on every save;
// values supplied by callers are never trusted.
type TestCase struct {
	ID                string   `json:"id"`
	ProjectID         string   `json:"projectId"`
	Title             string   `json:"title"`
	Module            string   `json:"module"`
	Priority          Priority `json:"priority"`
	Status            Status   `json:"status"`
	Steps             []string `json:"steps"`
	Expected          string   `json:"expected"`
	Script            string   `json:"script"`
	HasAutomation     bool     `json:"hasAutomation"`
	Round             int      `json:"round,omitempty"`
	Timestamp         int64    `json:"timestamp"`
	LastUpdatedBy     string   `json:"lastUpdatedBy,omitempty"`
	LastUpdatedByName string   `json:"lastUpdatedByName,omitempty"`
}

// RecomputeAutomation derives HasAutomation from Script.
func (c *TestCase) RecomputeAutomation() {
	c.HasAutomation = strings.TrimSpace(c.Script) != ""
}

// NewCaseID returns a human-readable case id of the form TC-####.
// Uniqueness is probabilistic only; there is no collision retry.
func NewCaseID() string {
	return fmt.Sprintf("TC-%d", 1000+rand.IntN(9000))
}

// NewAPICaseID returns a human-readable API case id of the form API-####.
func NewAPICaseID() string {
	return fmt.Sprintf("API-%d", 1000+rand.IntN(9000))
}
