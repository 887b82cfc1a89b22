package dto

// RestoreResponse represents the response for a ledger restore.
type RestoreResponse struct {
	Restored int `json:"restored"`
}

// ReminderResponse represents the response for an overdue reminder run.
type ReminderResponse struct {
	OverdueCount int    `json:"overdue_count"`
	OverdueTotal string `json:"overdue_total"`
	Sent         bool   `json:"sent"`
}
