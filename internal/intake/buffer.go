// Package intake coalesces rapid-fire inbound fragments into one turn. Users
// on chat transports often send a thought across several short messages;
// delegating each fragment separately wastes turns and produces disjointed
// replies. The buffer holds fragments per identity and flushes the batch once
// the sender has been quiet for the debounce window.
package intake

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Fragment is one inbound message before coalescing.
type Fragment struct {
	Text        string
	MediaURL    string
	DisplayName string
}

// Batch is a flushed group of fragments for one identity.
type Batch struct {
	Identity    string
	Text        string
	MediaURL    string
	DisplayName string
	Count       int
}

// FlushFunc receives each coalesced batch. It runs on the timer goroutine;
// long work should move to its own goroutine.
type FlushFunc func(batch Batch)

type pending struct {
	fragments []Fragment
	timer     *time.Timer
	// gen invalidates timers that already fired but lost the race to Ingest:
	// Stop returning false means the callback is on its way, and it must not
	// flush fragments whose quiet window was just extended.
	gen int
}

// Buffer debounces per identity. Each Ingest resets that identity's timer, so
// the flush fires only after a full quiet window.
type Buffer struct {
	window time.Duration
	flush  FlushFunc
	log    zerolog.Logger

	mu      sync.Mutex
	pending map[string]*pending
	stopped bool
}

func NewBuffer(window time.Duration, flush FlushFunc, log zerolog.Logger) *Buffer {
	return &Buffer{
		window:  window,
		flush:   flush,
		log:     log,
		pending: map[string]*pending{},
	}
}

// Ingest appends a fragment for an identity and (re)schedules its flush.
func (b *Buffer) Ingest(identity string, frag Fragment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}

	p, ok := b.pending[identity]
	if !ok {
		p = &pending{}
		b.pending[identity] = p
	}
	p.fragments = append(p.fragments, frag)

	if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(b.window, func() {
		b.fire(identity, gen)
	})

	b.log.Debug().Str("identity", identity).Int("fragments", len(p.fragments)).Msg("buffered inbound fragment")
}

// Pending reports how many fragments are waiting for an identity.
func (b *Buffer) Pending(identity string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.pending[identity]; ok {
		return len(p.fragments)
	}
	return 0
}

// Stop cancels all timers and drops buffered fragments. Further Ingest calls
// are no-ops.
func (b *Buffer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	for identity, p := range b.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
		delete(b.pending, identity)
	}
}

// fire runs on the timer goroutine once the quiet window elapses. The entry is
// removed before the handler runs, so fragments arriving during the flush open
// a fresh batch instead of racing this one. A stale generation means Ingest
// rescheduled while this callback was in flight; the newer timer owns the
// flush.
func (b *Buffer) fire(identity string, gen int) {
	b.mu.Lock()
	p, ok := b.pending[identity]
	if !ok || b.stopped || p.gen != gen {
		b.mu.Unlock()
		return
	}
	delete(b.pending, identity)
	b.mu.Unlock()

	batch := coalesce(identity, p.fragments)
	b.log.Debug().Str("identity", identity).Int("fragments", batch.Count).Msg("flushing inbound batch")
	b.flush(batch)
}

// coalesce joins fragment texts in arrival order with blank lines. The first
// attachment wins; later ones are dropped rather than merged.
func coalesce(identity string, fragments []Fragment) Batch {
	batch := Batch{Identity: identity, Count: len(fragments)}
	var texts []string
	for _, frag := range fragments {
		if frag.Text != "" {
			texts = append(texts, frag.Text)
		}
		if batch.MediaURL == "" && frag.MediaURL != "" {
			batch.MediaURL = frag.MediaURL
		}
		if batch.DisplayName == "" && frag.DisplayName != "" {
			batch.DisplayName = frag.DisplayName
		}
	}
	batch.Text = strings.Join(texts, "\n\n")
	return batch
}
