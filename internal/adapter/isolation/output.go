// Package isolation holds helpers shared by the isolator backends.
package isolation

import (
	"bytes"
	"sync"
)

// LimitedBuffer keeps the first Limit bytes written to it and silently drops
// the rest. Writes never fail, so a chatty program cannot stall its reader.
type LimitedBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int64
	truncated bool
}

// NewLimitedBuffer returns a buffer capped at limit bytes; limit <= 0 means unbounded
func NewLimitedBuffer(limit int64) *LimitedBuffer {
	return &LimitedBuffer{limit: limit}
}

func (b *LimitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(p)
	if b.limit > 0 {
		room := b.limit - int64(b.buf.Len())
		if room <= 0 {
			b.truncated = true
			return n, nil
		}
		if int64(len(p)) > room {
			p = p[:room]
			b.truncated = true
		}
	}
	b.buf.Write(p)
	return n, nil
}

func (b *LimitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *LimitedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}
