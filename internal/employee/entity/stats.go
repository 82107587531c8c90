package entity

// NameCount is a distinct location with its occurrence count.
type NameCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TitleCount is a distinct job title with its occurrence count.
type TitleCount struct {
	Title string `json:"title"`
	Value int    `json:"value"`
}

// TopLocation is the single highest-count location.
type TopLocation struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// ActiveSummary counts active records against the whole set.
type ActiveSummary struct {
	Active int `json:"active"`
	Total  int `json:"total"`
}

// StatsReport is the aggregate view over the entire employee set.
type StatsReport struct {
	TotalEmployees  int           `json:"totalEmployees"`
	Departments     int           `json:"departments"`
	TopLocation     *TopLocation  `json:"topLocation"`
	Locations       []NameCount   `json:"locations"`
	AverageSalary   int           `json:"averageSalary"`
	ActiveEmployees ActiveSummary `json:"activeEmployees"`
	JobTitleTrends  []TitleCount  `json:"jobTitleTrends"`
}
