// Package models holds server-side persistence models that never leave the
// server. Domain documents (projects, modules, cases) are shared with the
// client and live in the top-level models package.
package models

// User is a registered account.
type User struct {
	ID           string
	Login        string
	PasswordHash string
	DisplayName  string
	CreatedAt    int64
}
