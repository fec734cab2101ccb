package outbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_DoublesPerRetry(t *testing.T) {
	tests := []struct {
		retryCount int
		want       time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{5, 32 * time.Second},
		{8, 256 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Backoff(tt.retryCount), "retryCount=%d", tt.retryCount)
	}
}

func TestBackoff_CapsAtFiveMinutes(t *testing.T) {
	for _, retryCount := range []int{9, 10, 20, 63, 100, 1000} {
		assert.Equal(t, 300*time.Second, Backoff(retryCount), "retryCount=%d", retryCount)
	}
}
