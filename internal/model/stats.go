package model

// Stats summarizes registry activity.
type Stats struct {
	TotalGates      int    `json:"total_gates"`
	TotalAccounts   int    `json:"total_accounts"`
	TotalPassages   int    `json:"total_passages"`
	VolumeForwarded uint64 `json:"volume_forwarded"`
}
