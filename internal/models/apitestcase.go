package models

// Header is one key/value pair of an API test case. Order matters, so
// headers are kept as a slice rather than a map.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// APITestCase is the HTTP-style counterpart of TestCase. Requests are
// never actually executed; expectations describe the simulated check.
type APITestCase struct {
	ID                string   `json:"id"`
	ProjectID         string   `json:"projectId"`
	Title             string   `json:"title"`
	Module            string   `json:"module"`
	Priority          Priority `json:"priority"`
	Status            Status   `json:"status"`
	Method            string   `json:"method"`
	URL               string   `json:"url"`
	Headers           []Header `json:"headers"`
	Body              string   `json:"body,omitempty"`
	ExpectedStatus    int      `json:"expectedStatus"`
	ExpectedBody      string   `json:"expectedBody,omitempty"`
	Round             int      `json:"round,omitempty"`
	Timestamp         int64    `json:"timestamp"`
	LastUpdatedBy     string   `json:"lastUpdatedBy,omitempty"`
	LastUpdatedByName string   `json:"lastUpdatedByName,omitempty"`
}
