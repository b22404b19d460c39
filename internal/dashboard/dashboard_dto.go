package dashboard

type RecentHireResponse struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Position   string  `json:"position"`
	Department *string `json:"department"`
	Status     string  `json:"status"`
	HiredAt    string  `json:"hiredAt"`
}

// StatsResponse.RecentHires lists every employee, most recent hire first.
type StatsResponse struct {
	TotalEmployees int64                `json:"totalEmployees"`
	NewHires       int64                `json:"newHires"`
	AverageSalary  float64              `json:"averageSalary"`
	RecentHires    []RecentHireResponse `json:"recentHires"`
	ByStatus       map[string]int64     `json:"byStatus"`
}
