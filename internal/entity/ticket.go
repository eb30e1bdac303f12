package entity

import "time"

type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	default:
		return false
	}
}

// SLAWindow is the resolution target measured from ticket creation.
func (p TicketPriority) SLAWindow() time.Duration {
	switch p {
	case TicketPriorityCritical:
		return 4 * time.Hour
	case TicketPriorityHigh:
		return 8 * time.Hour
	case TicketPriorityMedium:
		return 24 * time.Hour
	default:
		return 72 * time.Hour
	}
}

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusScheduled  TicketStatus = "scheduled"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed, TicketStatusScheduled:
		return true
	default:
		return false
	}
}

// Done reports whether the ticket no longer runs against its SLA.
func (s TicketStatus) Done() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

type TicketSource string

const (
	TicketSourceMerchant TicketSource = "merchant"
	TicketSourceAgent    TicketSource = "agent"
	TicketSourceSystem   TicketSource = "system"
	TicketSourcePhone    TicketSource = "phone"
	TicketSourceEmail    TicketSource = "email"
)

type SupportTicket struct {
	Meta
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	TerminalID        string         `json:"terminalId"`
	Priority          TicketPriority `json:"priority"`
	Status            TicketStatus   `json:"status"`
	Source            TicketSource   `json:"source"`
	ReportedBy        string         `json:"reportedBy"`
	AssignedTo        *string        `json:"assignedTo"`
	ResolvedAt        *time.Time     `json:"resolvedAt"`
	SLATarget         time.Time      `json:"slaTarget"`
	SLABreach         bool           `json:"slaBreach"`
	SLABreachDuration int            `json:"slaBreachDuration"`
}

// Normalize keeps resolvedAt set exactly when the ticket is resolved.
func (t *SupportTicket) Normalize(now time.Time) {
	if t.Status != TicketStatusResolved {
		t.ResolvedAt = nil
		return
	}

	if t.ResolvedAt == nil {
		resolvedAt := now
		t.ResolvedAt = &resolvedAt
	}
}

// EvaluateSLA recomputes the breach flag and overdue minutes at now.
// It reports whether the ticket became breached by this evaluation.
func (t *SupportTicket) EvaluateSLA(now time.Time) bool {
	if t.SLATarget.IsZero() {
		return false
	}

	end := now

	switch {
	case t.ResolvedAt != nil:
		end = *t.ResolvedAt
	case t.Status.Done():
		end = t.UpdatedAt
	}

	wasBreached := t.SLABreach

	if end.After(t.SLATarget) {
		t.SLABreach = true
		t.SLABreachDuration = int(end.Sub(t.SLATarget) / time.Minute)
	} else {
		t.SLABreach = false
		t.SLABreachDuration = 0
	}

	return t.SLABreach && !wasBreached
}
