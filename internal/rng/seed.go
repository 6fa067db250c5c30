package rng

import (
	"fmt"
	"math/rand"
	"time"
)

const seedAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// SeedLength is the length of generated run seeds.
const SeedLength = 6

// NewSeed returns a fresh 6-character run seed. This is the only place
// that touches ambient entropy; everything downstream of the seed is
// deterministic.
func NewSeed() string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	buf := make([]byte, SeedLength)
	for i := range buf {
		buf[i] = seedAlphabet[r.Intn(len(seedAlphabet))]
	}
	return string(buf)
}

// DailySeed derives the shared seed for a calendar date (UTC), so every
// player on the daily challenge replays the same run.
func DailySeed(t time.Time) string {
	day := t.UTC().Format("2006-01-02")
	st := NewStream("daily", day)
	buf := make([]byte, SeedLength)
	for i := range buf {
		buf[i] = seedAlphabet[st.NextInt(len(seedAlphabet))]
	}
	return string(buf)
}

// ValidateSeed rejects seeds that cannot identify a run.
func ValidateSeed(seed string) error {
	if len(seed) == 0 {
		return fmt.Errorf("rng: empty seed")
	}
	if len(seed) > 64 {
		return fmt.Errorf("rng: seed too long (%d chars, max 64)", len(seed))
	}
	for _, ch := range seed {
		if ch <= ' ' || ch > '~' {
			return fmt.Errorf("rng: seed contains non-printable character %q", ch)
		}
	}
	return nil
}
