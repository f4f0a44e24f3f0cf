package types

type Bucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// Statistics aggregates events for the dashboard charts.
type Statistics struct {
	ByType     []Bucket `json:"by_type"`
	ByLocation []Bucket `json:"by_location"`
	ByMonth    []Bucket `json:"by_month"`
}
