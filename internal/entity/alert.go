package entity

type AlertType string

const (
	AlertTypeTerminalOffline AlertType = "terminal_offline"
	AlertTypeTerminalError   AlertType = "terminal_error"
	AlertTypeSLABreach       AlertType = "sla_breach"
	AlertTypeMaintenance     AlertType = "maintenance"
	AlertTypeSystem          AlertType = "system"
)

type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "info"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityError    AlertSeverity = "error"
	AlertSeverityCritical AlertSeverity = "critical"
)

type SystemAlert struct {
	Meta
	Type           AlertType     `json:"type"`
	Message        string        `json:"message"`
	Severity       AlertSeverity `json:"severity"`
	TerminalID     *string       `json:"terminalId"`
	TicketID       *string       `json:"ticketId"`
	Acknowledged   bool          `json:"acknowledged"`
	AcknowledgedBy *string       `json:"acknowledgedBy"`
}
