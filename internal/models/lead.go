package models

import "time"

// LeadStatus is a column of the sales board.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusFollowUp  LeadStatus = "Follow-up"
	LeadStatusQualified LeadStatus = "Qualified"
	LeadStatusLost      LeadStatus = "Lost"
)

// LeadStatuses lists the board columns in display order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusFollowUp,
	LeadStatusQualified,
	LeadStatusLost,
}

func (s LeadStatus) Valid() bool {
	for _, st := range LeadStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type FollowUp struct {
	Date time.Time `json:"date"`
	Note string    `json:"note"`
}

// Lead is a prospective client. FollowUps is newest-first.
type Lead struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Source       string     `json:"source"`
	Status       LeadStatus `json:"status"`
	AssignedToID *int       `json:"assigned_to_id"`
	Notes        string     `json:"notes"`
	FollowUps    []FollowUp `json:"follow_ups"`
	ClientID     *int       `json:"client_id,omitempty"` // set once the lead is converted
	CreatedAt    time.Time  `json:"created_at"`
}

// Clone returns a copy that shares no mutable state with l.
func (l *Lead) Clone() *Lead {
	if l == nil {
		return nil
	}
	cp := *l
	cp.AssignedToID = cloneIntPtr(l.AssignedToID)
	cp.ClientID = cloneIntPtr(l.ClientID)
	cp.FollowUps = append([]FollowUp(nil), l.FollowUps...)
	return &cp
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
