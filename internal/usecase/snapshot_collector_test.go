package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	domrepo "github.com/Kiwitwitter/daily-finance/internal/domain/repository"
	"github.com/Kiwitwitter/daily-finance/internal/repository"
	"github.com/Kiwitwitter/daily-finance/pkg/metrics"
)

type stubFetcher struct {
	name models.SnapshotName
	doc  any
	n    int
	err  error
	wait bool
}

func (f stubFetcher) Source() models.SnapshotName { return f.name }

func (f stubFetcher) Fetch(ctx context.Context) (any, int, error) {
	if f.wait {
		<-ctx.Done()
		return nil, 0, ctx.Err()
	}
	return f.doc, f.n, f.err
}

type published struct {
	name models.SnapshotName
	date string
}

type recordingPublisher struct {
	got []published
	err error
}

func (p *recordingPublisher) PublishSnapshot(_ context.Context, name models.SnapshotName, date string, _ []byte) error {
	p.got = append(p.got, published{name, date})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type recordingArchive struct {
	repository.NoopOptionsArchive
	dates []string
}

func (a *recordingArchive) StoreOverview(_ context.Context, date string, _ models.MarketOverview, _ []models.OptionsEntry) error {
	a.dates = append(a.dates, date)
	return nil
}

var testMeta = models.Meta{Date: "2024-05-01", FetchTime: "2024-05-01 08:00:00"}

func TestCollectorRunsInFetchOrder(t *testing.T) {
	dir := t.TempDir()
	pub := &recordingPublisher{}
	arch := &recordingArchive{}
	fetchers := []domrepo.Fetcher{
		stubFetcher{name: models.SnapshotNews, doc: models.NewsSnapshot{Meta: testMeta}, n: 3},
		stubFetcher{name: models.SnapshotRatings, err: errors.New("yahoo down")},
		stubFetcher{name: models.SnapshotOptions, doc: models.OptionsSnapshot{Meta: testMeta}, n: 30},
	}
	c := NewSnapshotCollector(repository.NewFileSnapshotStore(dir), fetchers, pub, arch, metrics.Nop{}, time.Second, nil)

	assert.Equal(t, []models.SnapshotName{models.SnapshotOptions, models.SnapshotNews, models.SnapshotRatings}, c.Sources())

	results, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, models.SnapshotOptions, results[0].Source)
	assert.True(t, results[0].OK)
	assert.Equal(t, 30, results[0].Records)
	assert.True(t, results[1].OK)
	assert.False(t, results[2].OK)
	assert.Contains(t, results[2].Error, "yahoo down")
	assert.Equal(t, 2, Succeeded(results))

	assert.FileExists(t, filepath.Join(dir, "options.json"))
	assert.FileExists(t, filepath.Join(dir, "news.json"))
	assert.NoFileExists(t, filepath.Join(dir, "ratings.json"))

	assert.Equal(t, []published{{models.SnapshotOptions, "2024-05-01"}, {models.SnapshotNews, "2024-05-01"}}, pub.got)
	assert.Equal(t, []string{"2024-05-01"}, arch.dates)
}

func TestCollectorPublishFailureIsNotFetchFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker gone")}
	c := NewSnapshotCollector(repository.NewFileSnapshotStore(t.TempDir()),
		[]domrepo.Fetcher{stubFetcher{name: models.SnapshotNews, doc: models.NewsSnapshot{Meta: testMeta}}},
		pub, nil, nil, 0, nil)

	results, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.True(t, results[0].OK)
}

func TestCollectorTimeout(t *testing.T) {
	c := NewSnapshotCollector(repository.NewFileSnapshotStore(t.TempDir()),
		[]domrepo.Fetcher{stubFetcher{name: models.SnapshotCalendar, wait: true}},
		nil, nil, nil, 20*time.Millisecond, nil)

	results, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].OK)
	assert.Contains(t, results[0].Error, context.DeadlineExceeded.Error())
}

func TestCollectorNamedSources(t *testing.T) {
	c := NewSnapshotCollector(repository.NewFileSnapshotStore(t.TempDir()),
		[]domrepo.Fetcher{
			stubFetcher{name: models.SnapshotNews, doc: models.NewsSnapshot{Meta: testMeta}},
			stubFetcher{name: models.SnapshotOptions, doc: models.OptionsSnapshot{Meta: testMeta}},
		}, nil, nil, nil, 0, nil)

	results, err := c.Collect(context.Background(), models.SnapshotNews)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.SnapshotNews, results[0].Source)

	_, err = c.Collect(context.Background(), models.SnapshotEarnings)
	assert.ErrorIs(t, err, models.ErrUnknownSource)
}
