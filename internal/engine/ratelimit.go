package engine

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewBWLimiter creates a rate.Limiter that caps aggregate throughput to
// bytesPerSec. The burst is one default chunk so a single write never has to
// be split.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	burst := 1 << 20 // 1 MB
	if bytesPerSec < int64(burst) {
		burst = int(bytesPerSec)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

// rateLimitedWriter wraps an io.Writer and enforces a shared rate limit.
// Waiting honours the job context, so a throttled copy still cancels
// promptly.
type rateLimitedWriter struct {
	w       io.Writer
	limiter *rate.Limiter
	ctx     context.Context
}

func (rw *rateLimitedWriter) Write(p []byte) (int, error) {
	for rest := p; len(rest) > 0; {
		n := min(len(rest), rw.limiter.Burst())
		if err := rw.limiter.WaitN(rw.ctx, n); err != nil {
			return 0, err
		}
		rest = rest[n:]
	}
	return rw.w.Write(p)
}
