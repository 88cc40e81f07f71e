package models

// Module is a named grouping label for test cases within a project.
// Cases reference a module by its display name, not by id, so renaming a
// module does not rewrite existing cases. This denormalization is
// intentional and covered by tests.
type Module struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
}
