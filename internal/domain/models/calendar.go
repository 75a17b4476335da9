package models

type CalendarEvent struct {
	Time     string  `json:"time"`
	Country  string  `json:"country"`
	Event    string  `json:"event"`
	Impact   string  `json:"impact"`
	Actual   *string `json:"actual"`
	Estimate *string `json:"estimate"`
	Prev     *string `json:"prev"`
	Unit     string  `json:"unit"`
}

type CalendarSnapshot struct {
	Meta
	TotalEvents int             `json:"total_events"`
	USEvents    []CalendarEvent `json:"us_events"`
	Note        string          `json:"note,omitempty"`
}
