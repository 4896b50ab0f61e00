package entities

// Project is one row of the static grants dataset. The dataset is loaded
// from a JSON file at startup and never mutated, so there are no gorm tags.
type Project struct {
	Title             string   `json:"title"`
	Description       string   `json:"description,omitempty"`
	Category          string   `json:"category,omitempty"`
	ProjectType       string   `json:"project_type,omitempty"`
	FundingAmount     float64  `json:"funding_amount,omitempty"`
	AwardedYear       int      `json:"awarded_year,omitempty"`
	UsesSmartContract bool     `json:"uses_smart_contract,omitempty"`
	Website           string   `json:"website,omitempty"`
	Tags              []string `json:"tags,omitempty"`
}
