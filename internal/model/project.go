package model

import "time"

// Project is a named container of generated specifications.
// The owning member is immutable after creation.
type Project struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"member_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnedBy reports whether the project belongs to the given member.
func (p *Project) OwnedBy(memberID string) bool {
	return p.MemberID == memberID
}
