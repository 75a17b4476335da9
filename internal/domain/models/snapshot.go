package models

import (
	"fmt"
	"time"
)

// SnapshotName identifies one category of fetched market data.
type SnapshotName string

const (
	SnapshotNews      SnapshotName = "news"
	SnapshotRatings   SnapshotName = "ratings"
	SnapshotOptions   SnapshotName = "options"
	SnapshotEarnings  SnapshotName = "earnings"
	SnapshotCalendar  SnapshotName = "calendar"
	SnapshotStockInfo SnapshotName = "stock_info"
	SnapshotAnalysis  SnapshotName = "analysis"
)

// FetchOrder is the order the daily job runs fetchers in.
var FetchOrder = []SnapshotName{
	SnapshotOptions,
	SnapshotNews,
	SnapshotRatings,
	SnapshotCalendar,
	SnapshotEarnings,
	SnapshotStockInfo,
}

// PremarketGroup and OptionsGroup drive the per-section update times.
var (
	PremarketGroup = []SnapshotName{SnapshotCalendar, SnapshotEarnings, SnapshotRatings, SnapshotNews}
	OptionsGroup   = []SnapshotName{SnapshotOptions}
)

// File is the document's file name inside the data directory.
func (n SnapshotName) File() string { return string(n) + ".json" }

func (n SnapshotName) String() string { return string(n) }

// ParseSnapshotName maps a user supplied source name to a fetchable snapshot.
func ParseSnapshotName(s string) (SnapshotName, error) {
	for _, n := range FetchOrder {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Meta is the self-describing header every snapshot document carries.
type Meta struct {
	Date      string `json:"date"`
	FetchTime string `json:"fetch_time"`
}

// NewMeta stamps a document fetched at now.
func NewMeta(now time.Time) Meta {
	return Meta{
		Date:      now.Format("2006-01-02"),
		FetchTime: now.Format("2006-01-02 15:04:05"),
	}
}

// Snapshot is the result of loading one document. Absent documents have
// Present=false and a nil Err; unreadable or malformed ones carry Err.
// Dropped names the values that were skipped while decoding a Present one.
type Snapshot[T any] struct {
	Doc     T
	Present bool
	ModTime time.Time
	Err     error
	Dropped []string
}
