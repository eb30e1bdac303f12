package store

import (
	"time"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
)

const metricsDays = 30

// Fixtures is the seed data written the first time a collection is read.
type Fixtures struct {
	Users     []entity.User
	Terminals []entity.Terminal
	Tickets   []entity.SupportTicket
	Alerts    []entity.SystemAlert
	Metrics   []entity.PerformanceMetrics
}

// DefaultFixtures builds the demo data set relative to now. Passwords are the
// legacy plaintext values and get hashed on first successful login.
func DefaultFixtures(now time.Time) Fixtures {
	now = now.UTC().Truncate(time.Second)

	return Fixtures{
		Users:     fixtureUsers(now),
		Terminals: fixtureTerminals(now),
		Tickets:   fixtureTickets(now),
		Alerts:    fixtureAlerts(now),
		Metrics:   fixtureMetrics(now),
	}
}

func meta(id string, createdAt time.Time) entity.Meta {
	return entity.Meta{ID: id, CreatedAt: createdAt, UpdatedAt: createdAt}
}

func ptr[T any](v T) *T { return &v }

func fixtureUsers(now time.Time) []entity.User {
	created := now.AddDate(0, -6, 0)

	return []entity.User{
		{
			Meta:              meta("1", created),
			Username:          "admin",
			Email:             "admin@terminalpulse.local",
			FullName:          "System Administrator",
			Password:          "admin123",
			Role:              entity.RoleAdministrator,
			Status:            entity.UserStatusActive,
			AssignedTerminals: []string{},
		},
		{
			Meta:              meta("2", created),
			Username:          "manager",
			Email:             "manager@terminalpulse.local",
			FullName:          "Service Desk Manager",
			Password:          "manager123",
			Role:              entity.RoleServiceDeskManager,
			Status:            entity.UserStatusActive,
			AssignedTerminals: []string{},
		},
		{
			Meta:              meta("3", created),
			Username:          "agent",
			Email:             "agent@terminalpulse.local",
			FullName:          "Support Agent",
			Password:          "agent123",
			Role:              entity.RoleSupportAgent,
			Status:            entity.UserStatusActive,
			AssignedTerminals: []string{},
		},
		{
			Meta:              meta("4", created),
			Username:          "merchant",
			Email:             "owner@centralmarket.local",
			FullName:          "Central Market Owner",
			Password:          "merchant123",
			Role:              entity.RoleMerchant,
			Status:            entity.UserStatusActive,
			AssignedTerminals: []string{"T001", "T002"},
		},
		{
			Meta:              meta("5", created),
			Username:          "merchant2",
			Email:             "owner@harbourcafe.local",
			FullName:          "Harbour Cafe Owner",
			Password:          "merchant123",
			Role:              entity.RoleMerchant,
			Status:            entity.UserStatusActive,
			AssignedTerminals: []string{"T003"},
		},
	}
}

func fixtureTerminals(now time.Time) []entity.Terminal {
	created := now.AddDate(-1, 0, 0)

	return []entity.Terminal{
		{
			Meta:              meta("T001", created),
			Location:          "Central Market, Till 1",
			MerchantName:      "Central Market",
			Model:             "Ingenico Move/5000",
			SerialNumber:      "ING-5000-00117",
			Status:            entity.TerminalStatusOnline,
			Coordinates:       entity.Coordinates{Lat: -17.8292, Lng: 31.0522},
			Uptime:            99.2,
			TransactionsToday: 342,
			LastSeen:          now.Add(-2 * time.Minute),
			LastTransaction:   ptr(now.Add(-4 * time.Minute)),
		},
		{
			Meta:              meta("T002", created),
			Location:          "Central Market, Till 2",
			MerchantName:      "Central Market",
			Model:             "Verifone V240m",
			SerialNumber:      "VF-240-88412",
			Status:            entity.TerminalStatusOffline,
			Coordinates:       entity.Coordinates{Lat: -17.8295, Lng: 31.0519},
			Uptime:            87.5,
			TransactionsToday: 41,
			LastSeen:          now.Add(-3 * time.Hour),
			LastTransaction:   ptr(now.Add(-3 * time.Hour)),
		},
		{
			Meta:              meta("T003", created),
			Location:          "Harbour Cafe, Counter",
			MerchantName:      "Harbour Cafe",
			Model:             "PAX A920",
			SerialNumber:      "PAX-920-30077",
			Status:            entity.TerminalStatusMaintenance,
			Coordinates:       entity.Coordinates{Lat: -17.8181, Lng: 31.0447},
			Uptime:            94.1,
			TransactionsToday: 0,
			LastSeen:          now.Add(-30 * time.Minute),
			MaintenanceWindow: &entity.MaintenanceWindow{
				Start: now.Add(-time.Hour),
				End:   now.Add(2 * time.Hour),
			},
		},
		{
			Meta:              meta("T004", created),
			Location:          "City Pharmacy, Front Desk",
			MerchantName:      "City Pharmacy",
			Model:             "Ingenico Desk/3500",
			SerialNumber:      "ING-3500-55120",
			Status:            entity.TerminalStatusError,
			Coordinates:       entity.Coordinates{Lat: -17.8330, Lng: 31.0490},
			Uptime:            72.8,
			TransactionsToday: 12,
			LastSeen:          now.Add(-10 * time.Minute),
			LastTransaction:   ptr(now.Add(-95 * time.Minute)),
		},
		{
			Meta:              meta("T005", created),
			Location:          "Airport Duty Free, Gate B",
			MerchantName:      "Airport Duty Free",
			Model:             "PAX A80",
			SerialNumber:      "PAX-80-10993",
			Status:            entity.TerminalStatusOnline,
			Coordinates:       entity.Coordinates{Lat: -17.9318, Lng: 31.0928},
			Uptime:            99.9,
			TransactionsToday: 518,
			LastSeen:          now.Add(-1 * time.Minute),
			LastTransaction:   ptr(now.Add(-1 * time.Minute)),
		},
	}
}

func fixtureTicket(
	id, terminalID, title, description string,
	priority entity.TicketPriority,
	status entity.TicketStatus,
	source entity.TicketSource,
	reportedBy string, // user id
	createdAt time.Time,
	now time.Time,
) entity.SupportTicket {
	t := entity.SupportTicket{
		Meta:        meta(id, createdAt),
		Title:       title,
		Description: description,
		TerminalID:  terminalID,
		Priority:    priority,
		Status:      status,
		Source:      source,
		ReportedBy:  reportedBy,
		SLATarget:   createdAt.Add(priority.SLAWindow()),
	}

	if status == entity.TicketStatusResolved {
		t.ResolvedAt = ptr(createdAt.Add(priority.SLAWindow() / 2))
		t.UpdatedAt = *t.ResolvedAt
	}

	t.EvaluateSLA(now)

	return t
}

func fixtureTickets(now time.Time) []entity.SupportTicket {
	tickets := []entity.SupportTicket{
		fixtureTicket("TKT-001", "T002", "Terminal not connecting",
			"Till 2 lost network connection and does not reconnect after restart.",
			entity.TicketPriorityHigh, entity.TicketStatusOpen, entity.TicketSourceMerchant,
			"4", now.Add(-10*time.Hour), now),
		fixtureTicket("TKT-002", "T004", "Card reader error",
			"Chip reader reports error E-204 on every insert.",
			entity.TicketPriorityCritical, entity.TicketStatusInProgress, entity.TicketSourceSystem,
			"1", now.Add(-2*time.Hour), now),
		fixtureTicket("TKT-003", "T003", "Scheduled firmware upgrade",
			"Upgrade terminal firmware during the maintenance window.",
			entity.TicketPriorityLow, entity.TicketStatusScheduled, entity.TicketSourceAgent,
			"3", now.Add(-24*time.Hour), now),
		fixtureTicket("TKT-004", "T001", "Receipt printer paper jam",
			"Printer jams on every second receipt.",
			entity.TicketPriorityMedium, entity.TicketStatusResolved, entity.TicketSourcePhone,
			"4", now.Add(-48*time.Hour), now),
		fixtureTicket("TKT-005", "T005", "Slow transaction approvals",
			"Approvals take more than 20 seconds at peak hours.",
			entity.TicketPriorityMedium, entity.TicketStatusOpen, entity.TicketSourceEmail,
			"2", now.Add(-6*time.Hour), now),
		fixtureTicket("TKT-006", "T003", "Display flickering",
			"Screen flickers when the terminal is on battery.",
			entity.TicketPriorityLow, entity.TicketStatusClosed, entity.TicketSourceMerchant,
			"5", now.Add(-120*time.Hour), now),
	}

	tickets[1].AssignedTo = ptr("3")
	tickets[3].AssignedTo = ptr("3")

	return tickets
}

func fixtureAlerts(now time.Time) []entity.SystemAlert {
	return []entity.SystemAlert{
		{
			Meta:       meta("ALT-001", now.Add(-3*time.Hour)),
			Type:       entity.AlertTypeTerminalOffline,
			Message:    "Terminal T002 has been offline for more than 2 hours",
			Severity:   entity.AlertSeverityError,
			TerminalID: ptr("T002"),
		},
		{
			Meta:       meta("ALT-002", now.Add(-2*time.Hour)),
			Type:       entity.AlertTypeTerminalError,
			Message:    "Terminal T004 reports card reader failure",
			Severity:   entity.AlertSeverityCritical,
			TerminalID: ptr("T004"),
			TicketID:   ptr("TKT-002"),
		},
		{
			Meta:           meta("ALT-003", now.Add(-time.Hour)),
			Type:           entity.AlertTypeMaintenance,
			Message:        "Terminal T003 entered scheduled maintenance",
			Severity:       entity.AlertSeverityInfo,
			TerminalID:     ptr("T003"),
			Acknowledged:   true,
			AcknowledgedBy: ptr("3"),
		},
		{
			Meta:     meta("ALT-004", now.Add(-30*time.Minute)),
			Type:     entity.AlertTypeSLABreach,
			Message:  "Ticket TKT-001 breached its SLA target",
			Severity: entity.AlertSeverityWarning,
			TicketID: ptr("TKT-001"),
		},
	}
}

// fixtureMetrics returns a deterministic daily series ending today.
func fixtureMetrics(now time.Time) []entity.PerformanceMetrics {
	metrics := make([]entity.PerformanceMetrics, 0, metricsDays)

	for i := range metricsDays {
		total := 12000 + (i*379)%2500
		failed := total * (1 + i%4) / 100

		metrics = append(metrics, entity.PerformanceMetrics{
			Date:                   now.AddDate(0, 0, i-metricsDays+1).Format(time.DateOnly),
			TotalTransactions:      total,
			SuccessfulTransactions: total - failed,
			FailedTransactions:     failed,
			AverageResponseTimeMs:  180 + (i*37)%90,
			Uptime:                 97.5 + float64((i*13)%25)/10,
			ActiveTerminals:        4 + i%2,
			TicketsOpened:          2 + i%5,
			TicketsResolved:        1 + (i*3)%5,
		})
	}

	return metrics
}
