package models

// Project is the top-level container ("scope") for modules and test cases.
// It is owned by exactly one identity; other identities gain visibility
// through a Membership link, never through the Owner field.
type Project struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Initial string `json:"initial"`
	Owner   string `json:"owner"`
}

// Membership links an identity to a project. Its existence, not project
// ownership, is what makes a project visible to a non-owner.
type Membership struct {
	ProjectID string `json:"projectId"`
	JoinedAt  int64  `json:"joinedAt"`
	Role      Role   `json:"role"`
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)
