package outbox

import "time"

// maxBackoff caps the delay between attempts at five minutes.
const maxBackoff = 300 * time.Second

// Backoff returns the delay before the next attempt after retryCount
// recorded failures: 2^retryCount seconds, capped at maxBackoff.
func Backoff(retryCount int) time.Duration {
	if retryCount >= 9 {
		return maxBackoff
	}
	d := time.Duration(1<<uint(retryCount)) * time.Second
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
