package usecase

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/pkg/util"
)

var reportTypePattern = regexp.MustCompile(`^[a-z]+$`)

// ReportIndex looks up rendered reports in the output directory.
type ReportIndex struct {
	outputDir string
}

func NewReportIndex(outputDir string) *ReportIndex {
	return &ReportIndex{outputDir: outputDir}
}

// OutputDir returns the directory reports are served from.
func (x *ReportIndex) OutputDir() string { return x.outputDir }

// ParseReportName splits "YYYY-MM-DD[-type].html" into date and type. A
// name with no type suffix is a daily report.
func ParseReportName(filename string) (string, models.ReportType, bool) {
	stem, ok := strings.CutSuffix(filename, ".html")
	if !ok || len(stem) < len(util.DateLayout) {
		return "", "", false
	}
	date := stem[:len(util.DateLayout)]
	if !util.IsDate(date) {
		return "", "", false
	}
	rest := stem[len(util.DateLayout):]
	if rest == "" {
		return date, models.ReportDaily, true
	}
	typ, ok := strings.CutPrefix(rest, "-")
	if !ok || typ == "" {
		return "", "", false
	}
	return date, models.ReportType(typ), true
}

// List returns every dated report, newest first, ties broken by type descending.
func (x *ReportIndex) List() ([]models.ReportEntry, error) {
	entries, err := os.ReadDir(x.outputDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.ReportEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}

	reports := []models.ReportEntry{}
	for _, e := range entries {
		if e.IsDir() || e.Name() == indexFile {
			continue
		}
		date, typ, ok := ParseReportName(e.Name())
		if !ok {
			continue
		}
		zh, en := typ.Display()
		reports = append(reports, models.ReportEntry{
			Date:          date,
			Type:          typ,
			TypeDisplay:   zh,
			TypeDisplayEn: en,
			Filename:      e.Name(),
			URL:           fmt.Sprintf("/report/%s?report_type=%s", date, typ),
		})
	}
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Date != reports[j].Date {
			return reports[i].Date > reports[j].Date
		}
		return reports[i].Type > reports[j].Type
	})
	return reports, nil
}

// Find resolves the file for a date and type, falling back to the untyped
// "{date}.html". Invalid dates yield models.ErrInvalidDate.
func (x *ReportIndex) Find(date string, typ models.ReportType) (string, error) {
	if !util.IsDate(date) {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidDate, date)
	}
	if typ == "" {
		typ = models.ReportDaily
	}
	var candidates []string
	if reportTypePattern.MatchString(string(typ)) {
		candidates = append(candidates, typ.FileName(date))
	}
	candidates = append(candidates, date+".html")

	for _, name := range candidates {
		p := filepath.Join(x.outputDir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", models.ErrReportNotFound, date)
}

// Latest returns the path of index.html if a report has been built.
func (x *ReportIndex) Latest() (string, bool) {
	p := filepath.Join(x.outputDir, indexFile)
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		return p, true
	}
	return "", false
}
