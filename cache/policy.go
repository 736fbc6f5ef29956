package cache

import "time"

// DefaultTTL matches the default cache_expire_minutes of 30.
const DefaultTTL = 30 * time.Minute

// Policy configures caching behavior.
type Policy struct {
	// Enabled toggles storage. A disabled cache still collapses concurrent
	// renders of one key but never stores the result.
	Enabled bool

	// TTL is how long an artifact stays fresh. Zero or negative disables
	// storage, since every entry would already be expired.
	TTL time.Duration
}

// DefaultPolicy returns an enabled policy with DefaultTTL.
func DefaultPolicy() Policy {
	return Policy{Enabled: true, TTL: DefaultTTL}
}

// NoCachePolicy returns a policy that disables storage entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// PolicyFromMinutes builds a policy from the cache_enabled and
// cache_expire_minutes configuration values.
func PolicyFromMinutes(enabled bool, minutes int) Policy {
	return Policy{Enabled: enabled, TTL: time.Duration(minutes) * time.Minute}
}

// ShouldCache returns true if artifacts are stored under this policy.
func (p Policy) ShouldCache() bool {
	return p.Enabled && p.TTL > 0
}
