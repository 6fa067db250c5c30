package rng

import "container/list"

// DefaultMaxStreams bounds how many namespace streams a Pool caches.
// Reroll namespaces grow without bound in long sessions; past streams
// for exhausted namespaces are safe to evict because a reroll index is
// never revisited.
const DefaultMaxStreams = 512

// Pool caches one Stream per namespace for a single run seed, so
// repeated calls under the same namespace continue the same sequence
// instead of re-seeding. A Pool is owned by one run (or one simulated
// run) and is not safe for concurrent use.
type Pool struct {
	seed    string
	max     int
	streams map[string]*list.Element
	order   *list.List // front = most recently used
}

type poolEntry struct {
	namespace string
	stream    *Stream
}

// NewPool creates a stream pool for the given run seed.
func NewPool(seed string) *Pool {
	return &Pool{
		seed:    seed,
		max:     DefaultMaxStreams,
		streams: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Seed returns the run seed this pool derives streams from.
func (p *Pool) Seed() string { return p.seed }

// Stream returns the cached stream for namespace, deriving it on first
// use. Least recently used streams are evicted past the cache bound.
func (p *Pool) Stream(namespace string) *Stream {
	if el, ok := p.streams[namespace]; ok {
		p.order.MoveToFront(el)
		return el.Value.(*poolEntry).stream
	}

	st := NewStream(p.seed, namespace)
	el := p.order.PushFront(&poolEntry{namespace: namespace, stream: st})
	p.streams[namespace] = el

	for p.order.Len() > p.max {
		back := p.order.Back()
		p.order.Remove(back)
		delete(p.streams, back.Value.(*poolEntry).namespace)
	}
	return st
}

// Len returns the number of cached streams.
func (p *Pool) Len() int { return p.order.Len() }
