package ratelimiter

import (
	"strings"
	"sync"
	"time"
)

// Policy is a sliding-window limit: at most Max events per Window
type Policy struct {
	Max    int
	Window time.Duration
}

// Limiter counts events per namespace:key in memory. Namespaces without a policy are denied.
//
//	rl := ratelimiter.New()
//	rl.SetPolicy("turn", 30, time.Minute)
//	if !rl.Allow("turn", userID) { ... }
type Limiter struct {
	mu       sync.Mutex
	events   map[string][]time.Time
	policies map[string]Policy
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// New starts a limiter with a background sweeper that drops idle keys
func New() *Limiter {
	rl := &Limiter{
		events:   make(map[string][]time.Time),
		policies: make(map[string]Policy),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.sweepLoop(time.Minute)
	return rl
}

func (rl *Limiter) SetPolicy(namespace string, max int, window time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.policies[namespace] = Policy{Max: max, Window: window}
}

// Allow records an event for key and reports whether it fits the namespace policy.
// Rejected events are not recorded.
func (rl *Limiter) Allow(namespace, key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	policy, ok := rl.policies[namespace]
	if !ok || policy.Max <= 0 {
		return false
	}

	now := rl.now()
	id := namespace + ":" + key
	recent := prune(rl.events[id], now.Add(-policy.Window))
	if len(recent) >= policy.Max {
		rl.events[id] = recent
		return false
	}
	rl.events[id] = append(recent, now)
	return true
}

// RetryAfter is how long until key may send again; zero when it may send now
func (rl *Limiter) RetryAfter(namespace, key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	policy, ok := rl.policies[namespace]
	if !ok {
		return 0
	}
	now := rl.now()
	recent := prune(rl.events[namespace+":"+key], now.Add(-policy.Window))
	if len(recent) < policy.Max {
		return 0
	}
	return recent[0].Add(policy.Window).Sub(now)
}

// Reset forgets key's events
func (rl *Limiter) Reset(namespace, key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.events, namespace+":"+key)
}

// Stop ends the sweeper; safe to call more than once
func (rl *Limiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// prune keeps events after cutoff; events are appended in time order
func prune(events []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(events) && !events[i].After(cutoff) {
		i++
	}
	return events[i:]
}

func (rl *Limiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

func (rl *Limiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for id, events := range rl.events {
		namespace, _, _ := strings.Cut(id, ":")
		policy, ok := rl.policies[namespace]
		if !ok || len(prune(events, now.Add(-policy.Window))) == 0 {
			delete(rl.events, id)
		}
	}
}
