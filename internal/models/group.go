package models

// Group is a named scope limiting which expenses and settlements count
// toward a balance view. Membership is managed outside the ledger; the
// ledger only reads it.
type Group struct {
	// ID is the unique identifier for the group ("grp_" TypeID).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Description is optional free text.
	Description string

	// Members is the list of member user IDs, in join order.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID is a member of the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
