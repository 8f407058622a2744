package engine

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Per-platform rate limiters. External platforms throttle aggressively; each
// source gets one limiter shared by all of its adapter's calls.
var (
	limiterMu sync.Mutex
	limiters  = map[string]*rate.Limiter{}
)

// WaitLimit blocks until the named platform's rate limiter grants a slot, or
// the context is canceled. Limiters are created lazily from Cfg.PlatformRPS
// (0 or negative disables limiting for all platforms).
func WaitLimit(ctx context.Context, platform string) error {
	rps := Cfg.PlatformRPS
	if rps <= 0 {
		return nil
	}

	limiterMu.Lock()
	lim, ok := limiters[platform]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(rps), 1)
		limiters[platform] = lim
	}
	limiterMu.Unlock()

	return lim.Wait(ctx)
}
