package models

// Requests for the report web frontend.

type ReportRequest struct {
	Date       string `param:"date" json:"date" validate:"required,datetime=2006-01-02"`
	ReportType string `query:"report_type" json:"report_type" default:"daily" validate:"max=32"`
}

type ReportsListResponse struct {
	Reports []ReportEntry `json:"reports"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}
