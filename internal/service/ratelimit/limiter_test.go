package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowPerKey(t *testing.T) {
	l := New(0.001, 1)
	assert.True(t, l.Allow("query2.finance.yahoo.com"))
	assert.False(t, l.Allow("query2.finance.yahoo.com"))
	assert.True(t, l.Allow("finnhub.io"))
}

func TestUnlimited(t *testing.T) {
	l := New(0, 0)
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("k"))
	}
}

func TestWaitHonoursContext(t *testing.T) {
	l := New(0.001, 1)
	require.NoError(t, l.Wait(context.Background(), "k"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "k"))
}
