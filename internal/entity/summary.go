package entity

import "github.com/shopspring/decimal"

// DashboardSummary aggregates the records visible to the current user.
type DashboardSummary struct {
	TotalTerminals       int                    `json:"totalTerminals"`
	TerminalsByStatus    map[TerminalStatus]int `json:"terminalsByStatus"`
	AverageUptime        decimal.Decimal        `json:"averageUptime"`
	TransactionsToday    int                    `json:"transactionsToday"`
	TotalTickets         int                    `json:"totalTickets"`
	OpenTickets          int                    `json:"openTickets"`
	OpenByPriority       map[TicketPriority]int `json:"openByPriority"`
	BreachedTickets      int                    `json:"breachedTickets"`
	SLACompliance        decimal.Decimal        `json:"slaCompliance"`
	UnacknowledgedAlerts int                    `json:"unacknowledgedAlerts"`
}
