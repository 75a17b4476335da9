package models

import "fmt"

// ReportType is the suffix of a rendered report file name.
type ReportType string

const (
	ReportDaily     ReportType = "daily"
	ReportPremarket ReportType = "premarket"
	ReportOptions   ReportType = "options"
)

var reportDisplay = map[ReportType][2]string{
	ReportDaily:     {"综合日报", "Daily Report"},
	ReportPremarket: {"盘前报告", "Pre-Market"},
	ReportOptions:   {"期权日报", "Options"},
}

// Display returns the Chinese and English names of a report type. Unknown
// types display as themselves.
func (t ReportType) Display() (zh, en string) {
	if d, ok := reportDisplay[t]; ok {
		return d[0], d[1]
	}
	return string(t), string(t)
}

// FileName is the output file for a report of this type on date.
func (t ReportType) FileName(date string) string {
	return fmt.Sprintf("%s-%s.html", date, t)
}

// BuildKind selects which reports a build produces.
type BuildKind string

const (
	BuildCombined  BuildKind = "combined"
	BuildPremarket BuildKind = "premarket"
	BuildOptions   BuildKind = "options"
	BuildBoth      BuildKind = "both"
)

// ParseBuildKind validates a --type value.
func ParseBuildKind(s string) (BuildKind, error) {
	switch k := BuildKind(s); k {
	case BuildCombined, BuildPremarket, BuildOptions, BuildBoth:
		return k, nil
	case "":
		return BuildCombined, nil
	}
	return "", fmt.Errorf("unknown report type %q (want combined, premarket, options or both)", s)
}

// ReportEntry is one rendered report in the output directory.
type ReportEntry struct {
	Date          string     `json:"date"`
	Type          ReportType `json:"type"`
	TypeDisplay   string     `json:"type_display"`
	TypeDisplayEn string     `json:"type_display_en"`
	Filename      string     `json:"filename"`
	URL           string     `json:"url"`
}

// FetchResult is the outcome of one source fetch.
type FetchResult struct {
	Source  SnapshotName `json:"source"`
	OK      bool         `json:"ok"`
	Records int          `json:"records"`
	Elapsed string       `json:"elapsed"`
	Error   string       `json:"error,omitempty"`
}
