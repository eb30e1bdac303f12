package entity

// PerformanceMetrics is one day of the synthetic metrics series.
// The series is read-only once seeded.
type PerformanceMetrics struct {
	Date                   string  `json:"date"`
	TotalTransactions      int     `json:"totalTransactions"`
	SuccessfulTransactions int     `json:"successfulTransactions"`
	FailedTransactions     int     `json:"failedTransactions"`
	AverageResponseTimeMs  int     `json:"averageResponseTime"`
	Uptime                 float64 `json:"uptime"`
	ActiveTerminals        int     `json:"activeTerminals"`
	TicketsOpened          int     `json:"ticketsOpened"`
	TicketsResolved        int     `json:"ticketsResolved"`
}
