package models

import "errors"

var (
	// ErrMissingCredential means a required API key is not configured.
	ErrMissingCredential = errors.New("missing credential")
	// ErrEnrichmentFailed covers enricher errors, timeouts and unparseable output.
	ErrEnrichmentFailed = errors.New("enrichment failed")
	// ErrOutputDir means the report output directory could not be created.
	ErrOutputDir = errors.New("output directory unavailable")

	ErrUnknownSource    = errors.New("unknown source")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrReportNotFound   = errors.New("report not found")
	ErrInvalidDate      = errors.New("invalid date")
)
