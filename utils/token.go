package utils

import (
	"sync"
	"time"
)

// TokenBlacklist remembers revoked token ids until they would have expired anyway.
type TokenBlacklist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{revoked: make(map[string]time.Time)}
}

func (b *TokenBlacklist) Revoke(tokenID string, until time.Time) {
	if tokenID == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[tokenID] = until
	b.purgeLocked(time.Now())
}

func (b *TokenBlacklist) IsRevoked(tokenID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	until, ok := b.revoked[tokenID]
	return ok && time.Now().Before(until)
}

func (b *TokenBlacklist) purgeLocked(now time.Time) {
	for id, until := range b.revoked {
		if now.After(until) {
			delete(b.revoked, id)
		}
	}
}
