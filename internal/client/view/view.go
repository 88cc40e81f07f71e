// Package view computes filtered projections of the canonical collections
// for presentation. Filtering is a pure function of its inputs; result
// order follows the canonical collection's order, no sorting is applied.
package view

import (
	"strings"

	"github.com/zentesthq/zentest/internal/models"
)

// FilterAll is the status filter value that matches every status.
const FilterAll = "All"

func matches(title, id, search string, status models.Status, filterStatus string) bool {
	search = strings.ToLower(search)
	if !strings.Contains(strings.ToLower(title), search) && !strings.Contains(strings.ToLower(id), search) {
		return false
	}
	return filterStatus == FilterAll || string(status) == filterStatus
}

// FilterCases returns the cases whose title or id contains search
// (case-insensitive) and whose status matches filterStatus.
func FilterCases(cases []models.TestCase, search, filterStatus string) []models.TestCase {
	out := make([]models.TestCase, 0, len(cases))
	for _, c := range cases {
		if matches(c.Title, c.ID, search, c.Status, filterStatus) {
			out = append(out, c)
		}
	}
	return out
}

// FilterAPICases is FilterCases for the API view.
func FilterAPICases(cases []models.APITestCase, search, filterStatus string) []models.APITestCase {
	out := make([]models.APITestCase, 0, len(cases))
	for _, c := range cases {
		if matches(c.Title, c.ID, search, c.Status, filterStatus) {
			out = append(out, c)
		}
	}
	return out
}
