// Package auth supplies the access-control predicate consumed by the
// ledger's administrative operations.
//
// The ledger does not inherit authorization behavior; it is handed a
// Policy at construction and consults it per operation. This keeps the
// privileged-caller check a composable collaborator rather than
// something baked into the state machine.
package auth

// Policy answers the single question the ledger asks about a caller:
// is this account the administrator.
type Policy interface {
	IsAdmin(account string) bool
}

// Static is a single-administrator policy with a fixed admin account.
type Static struct {
	Admin string
}

// IsAdmin reports whether account is the configured administrator.
// An empty admin configuration matches no caller.
func (p Static) IsAdmin(account string) bool {
	return p.Admin != "" && account == p.Admin
}
