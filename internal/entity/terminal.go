package entity

import "time"

type TerminalStatus string

const (
	TerminalStatusOnline      TerminalStatus = "online"
	TerminalStatusOffline     TerminalStatus = "offline"
	TerminalStatusMaintenance TerminalStatus = "maintenance"
	TerminalStatusError       TerminalStatus = "error"
)

func (s TerminalStatus) Valid() bool {
	switch s {
	case TerminalStatusOnline, TerminalStatusOffline, TerminalStatusMaintenance, TerminalStatusError:
		return true
	default:
		return false
	}
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type MaintenanceWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Terminal struct {
	Meta
	Location          string             `json:"location"`
	MerchantName      string             `json:"merchantName"`
	Model             string             `json:"model"`
	SerialNumber      string             `json:"serialNumber"`
	Status            TerminalStatus     `json:"status"`
	Coordinates       Coordinates        `json:"coordinates"`
	Uptime            float64            `json:"uptime"`
	TransactionsToday int                `json:"transactionsToday"`
	LastSeen          time.Time          `json:"lastSeen"`
	LastTransaction   *time.Time         `json:"lastTransaction"`
	MaintenanceWindow *MaintenanceWindow `json:"maintenanceWindow"`
}

func (t *Terminal) Normalize(time.Time) {
	switch {
	case t.Uptime < 0:
		t.Uptime = 0
	case t.Uptime > 100: //nolint:mnd
		t.Uptime = 100
	}
}
