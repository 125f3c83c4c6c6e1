package models

// Recall is one manufacturer recall campaign affecting a vehicle.
type Recall struct {
	CampaignNumber string `json:"campaignNumber"`
	Manufacturer   string `json:"manufacturer"`
	Component      string `json:"component"`
	Summary        string `json:"summary"`
	Consequence    string `json:"consequence,omitempty"`
	Remedy         string `json:"remedy,omitempty"`
	ReportedDate   string `json:"reportedDate,omitempty"`
}
