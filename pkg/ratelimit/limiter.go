package ratelimit

import "context"

// Limiter bounds the rate of attempts per identifier within a time window.
//
// Implementations must be safe for concurrent use. The promo validation
// endpoint keys this on user id, falling back to client IP, falling back
// to the literal "anonymous".
type Limiter interface {
	// Allow reports whether one more attempt for key fits inside the
	// current window. A false return means the caller should reject the
	// request without touching the database.
	Allow(ctx context.Context, key string) (bool, error)
}
