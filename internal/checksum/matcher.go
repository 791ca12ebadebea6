package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Registry remembers the checksum of every file a process has accepted, so a
// re-submitted upload is recognized and rejected instead of silently
// rewriting the same rows with fresh timestamps.
type Registry struct {
	mu   sync.Mutex
	seen map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]bool)}
}

// Sum returns the hex sha256 of the data.
func Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Accept records the data's checksum. It returns false when the same content
// was accepted before.
func (r *Registry) Accept(data []byte) (string, bool) {
	sum := Sum(data)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[sum] {
		return sum, false
	}
	r.seen[sum] = true
	return sum, true
}

// Forget drops a checksum, letting the same content be uploaded again.
func (r *Registry) Forget(sum string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.seen, sum)
}
