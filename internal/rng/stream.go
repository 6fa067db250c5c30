// Package rng provides namespaced deterministic random streams.
// Every run decision point draws from its own stream, derived from the
// run seed plus a namespace string, so unrelated decisions never share
// generator state and replaying a run reproduces every roll exactly.
package rng

// Stream is a deterministic pseudo-random source (xorshift64 core).
// Two streams created from the same (seed, namespace) pair produce
// identical sequences on any platform.
type Stream struct {
	state uint64
}

// NewStream derives a stream from a run seed and a namespace key.
func NewStream(seed, namespace string) *Stream {
	s := mix(hashString(seed) ^ rotl(hashString(namespace), 31))
	if s == 0 {
		s = 0x9e3779b97f4a7c15
	}
	return &Stream{state: s}
}

// hashString is FNV-1a over the raw bytes of s.
func hashString(s string) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}

// mix is a splitmix64 finalizer; it spreads FNV output across all bits
// so nearby namespace strings do not yield correlated stream states.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

func rotl(x uint64, k uint) uint64 {
	return x<<k | x>>(64-k)
}

// next advances the xorshift64 state and returns it.
func (s *Stream) next() uint64 {
	s.state ^= s.state << 13
	s.state ^= s.state >> 7
	s.state ^= s.state << 17
	return s.state
}

// NextFloat returns a float64 in [0, 1).
func (s *Stream) NextFloat() float64 {
	return float64(s.next()>>11) / float64(1<<53)
}

// NextInt returns an int in [0, max). Returns 0 when max <= 0.
func (s *Stream) NextInt(max int) int {
	if max <= 0 {
		return 0
	}
	return int(s.next() % uint64(max))
}

// NextRange returns an int in [min, max]. Returns min when max < min.
func (s *Stream) NextRange(min, max int) int {
	if max < min {
		return min
	}
	return min + s.NextInt(max-min+1)
}

// RollDie returns an int in [1, sides].
func (s *Stream) RollDie(sides int) int {
	if sides <= 0 {
		return 0
	}
	return 1 + s.NextInt(sides)
}

// Chance returns true with the given percent probability (0-100).
func (s *Stream) Chance(percent float64) bool {
	return s.NextFloat()*100 < percent
}

// Pick returns a uniformly chosen element of items.
// The second return is false when items is empty.
func Pick[T any](s *Stream, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[s.NextInt(len(items))], true
}

// Shuffle permutes items in place (Fisher-Yates).
func Shuffle[T any](s *Stream, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := s.NextInt(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// PickN returns n elements sampled without replacement.
// When n exceeds len(items) the whole set is returned in shuffled order.
// The input slice is not modified.
func PickN[T any](s *Stream, items []T, n int) []T {
	if n <= 0 || len(items) == 0 {
		return nil
	}
	cp := make([]T, len(items))
	copy(cp, items)
	Shuffle(s, cp)
	if n > len(cp) {
		n = len(cp)
	}
	return cp[:n]
}
