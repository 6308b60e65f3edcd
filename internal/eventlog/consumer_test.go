package eventlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleepCtx_WaitsFullDelay(t *testing.T) {
	start := time.Now()
	ok := sleepCtx(context.Background(), 50*time.Millisecond)

	assert.True(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestSleepCtx_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	ok := sleepCtx(ctx, 10*time.Second)

	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}
