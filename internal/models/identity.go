package models

// GuestUID is the fixed uid of the local demo identity. Guest sessions
// never touch the network.
const GuestUID = "demo-user"

// Identity describes who is acting: either an authenticated account pushed
// by the auth provider, or the fixed local guest.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Guest returns the local preview identity.
func Guest() Identity {
	return Identity{
		UID:         GuestUID,
		DisplayName: "Guest User",
		Email:       "guest@zentest.local",
	}
}

// IsGuest reports whether the identity is the local demo user.
func (i Identity) IsGuest() bool { return i.UID == GuestUID }

// AuditName returns the display name recorded on writes, falling back to
// "Unknown" when the provider supplied none.
func (i Identity) AuditName() string {
	if i.DisplayName == "" {
		return "Unknown"
	}
	return i.DisplayName
}
