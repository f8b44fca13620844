package tenant

import (
	"context"
	"errors"
)

type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleCoach   Role = "COACH"
	RoleAthlete Role = "ATHLETE"
)

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrNotMember        = errors.New("user is not a member of the business")
)

// Member is the requesting user's membership in the business addressed by the URL slug.
type Member struct {
	BusinessID   int    `json:"businessId"`
	BusinessSlug string `json:"businessSlug"`
	UserID       string `json:"userId"`
	Role         Role   `json:"role"`
	// ClientID links an ATHLETE member to its own client record.
	ClientID *int `json:"clientId,omitempty"`
}

func (m *Member) CanWrite() bool {
	return m.Role == RoleOwner || m.Role == RoleCoach
}

// CanReadClient reports whether the member may see records of the given client.
func (m *Member) CanReadClient(clientID int) bool {
	if m.CanWrite() {
		return true
	}
	return m.Role == RoleAthlete && m.ClientID != nil && *m.ClientID == clientID
}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleCoach, RoleAthlete:
		return Role(s), true
	default:
		return "", false
	}
}

type memberCtxKey struct{}

func ContextWithMember(ctx context.Context, member *Member) context.Context {
	return context.WithValue(ctx, memberCtxKey{}, member)
}

func MemberFromContext(ctx context.Context) (*Member, bool) {
	member, ok := ctx.Value(memberCtxKey{}).(*Member)
	return member, ok && member != nil
}
