package model

// AuthContext holds the authenticated principal for a request.
// Populated by the JWT auth middleware from validated token claims.
type AuthContext struct {
	MemberID string
	Email    string
}
