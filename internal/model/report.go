package model

import "time"

// MonthlyRow holds the churn metrics of one month.
type MonthlyRow struct {
	Month     MonthKey `json:"month"`
	Created   int      `json:"created"`
	Canceled  int      `json:"canceled"`
	Active    int      `json:"active"`
	ChurnRate float64  `json:"churn_rate"` // percent
}

// IngestStats counts what happened to the input rows before aggregation.
type IngestStats struct {
	Rows             int `json:"rows"`
	MissingID        int `json:"missing_id"`
	InvalidCreated   int `json:"invalid_created"`
	InvalidCanceled  int `json:"invalid_canceled"`
	DuplicateDropped int `json:"duplicate_dropped"`
}

// Report is the result of one analysis run.
type Report struct {
	ID          string             `json:"id"`
	Source      string             `json:"source"`
	GeneratedAt time.Time          `json:"generated_at"`
	Customers   int                `json:"customers"`
	Months      []MonthlyRow       `json:"months"`
	Canceled    []CanceledCustomer `json:"canceled"`
	Stats       IngestStats        `json:"stats"`
}
