package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("30 8 * * 1-5"))
	assert.NoError(t, Validate("@every 1h"))
	assert.Error(t, Validate("not a schedule"))
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(context.Background(), time.UTC, nil)
	err := s.AddJob("61 * * * *", JobFunc{JobName: "x", Fn: func(context.Context) error { return nil }})
	assert.Error(t, err)
}

func TestNextUsesLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	s := New(context.Background(), ny, nil)
	require.NoError(t, s.AddJob("30 8 * * 1-5", JobFunc{JobName: "daily", Fn: func(context.Context) error { return nil }}))

	s.Start()
	defer s.Stop()

	next, ok := s.Next()
	require.True(t, ok)
	next = next.In(ny)
	assert.Equal(t, 8, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.NotEqual(t, time.Saturday, next.Weekday())
	assert.NotEqual(t, time.Sunday, next.Weekday())
}

func TestJobRuns(t *testing.T) {
	s := New(context.Background(), time.UTC, nil)
	ran := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("@every 1s", JobFunc{JobName: "tick", Fn: func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}}))
	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
