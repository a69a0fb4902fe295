package policy

type PolicyBalanceResponse struct {
	PolicyID         string  `json:"policy_id"`
	Name             string  `json:"name"`
	Unit             string  `json:"unit"`
	ValidFrom        string  `json:"valid_from"`
	ValidTo          string  `json:"valid_to"`
	Total            string  `json:"total"`
	Approved         string  `json:"approved"`
	Pending          string  `json:"pending"`
	Remaining        string  `json:"remaining"`
	RemainingPercent float64 `json:"remaining_percent"`
}
