package league

import (
	"fmt"
	"time"
)

const (
	MembershipStatusActive  = "active"
	MembershipStatusPending = "pending"
)

// League groups users who compete against each other's predictions.
type League struct {
	ID               string
	Name             string
	Description      string
	OwnerID          string
	Public           bool
	Official         bool
	RequiresApproval bool
	InviteCode       string
	MaxMembers       int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.OwnerID == "" {
		return fmt.Errorf("league owner id is required")
	}

	return nil
}

// OpenJoin reports whether a user may join without owner approval.
func (l League) OpenJoin() bool {
	return l.Public && !l.RequiresApproval
}

// Membership records a user's standing inside one league.
type Membership struct {
	LeagueID string
	UserID   string
	Status   string
	JoinedAt time.Time
}

func (m Membership) Active() bool {
	return m.Status == MembershipStatusActive
}
