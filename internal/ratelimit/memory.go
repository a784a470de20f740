package ratelimit

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type windowEntry struct {
	key  string
	hits []time.Time
}

// MemoryLimiter is an in-process sliding window limiter. It tracks at most
// capacity keys; when full, the least recently seen key is evicted.
type MemoryLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	capacity int
	order    *list.List
	entries  map[string]*list.Element
	now      func() time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter allows limit hits per window for each of up to capacity keys.
func NewMemoryLimiter(limit int, window time.Duration, capacity int) *MemoryLimiter {
	if limit <= 0 {
		limit = 1
	}
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemoryLimiter{
		limit:    limit,
		window:   normalizeWindow(window),
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
		now:      time.Now,
	}
}

// Allow records a hit for key if the key is under its limit.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	key = normalizeKey(key)
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	elem, ok := l.entries[key]
	if !ok {
		if l.order.Len() >= l.capacity {
			l.evictOldest()
		}
		elem = l.order.PushFront(&windowEntry{key: key})
		l.entries[key] = elem
	} else {
		l.order.MoveToFront(elem)
	}

	entry := elem.Value.(*windowEntry)
	entry.hits = pruneBefore(entry.hits, cutoff)

	if len(entry.hits) >= l.limit {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: entry.hits[0].Add(l.window).Sub(now),
		}, nil
	}

	entry.hits = append(entry.hits, now)
	return Decision{Allowed: true, Remaining: l.limit - len(entry.hits)}, nil
}

// Len reports how many keys are currently tracked.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}

// Prune drops keys with no hits inside the window.
func (l *MemoryLimiter) Prune() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for elem := l.order.Back(); elem != nil; {
		prev := elem.Prev()
		entry := elem.Value.(*windowEntry)
		entry.hits = pruneBefore(entry.hits, cutoff)
		if len(entry.hits) == 0 {
			l.order.Remove(elem)
			delete(l.entries, entry.key)
		}
		elem = prev
	}
}

// Run prunes stale keys every interval until ctx is cancelled.
func (l *MemoryLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = l.window
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune()
		}
	}
}

func (l *MemoryLimiter) evictOldest() {
	oldest := l.order.Back()
	if oldest == nil {
		return
	}
	l.order.Remove(oldest)
	delete(l.entries, oldest.Value.(*windowEntry).key)
}

func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
