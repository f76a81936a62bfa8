package engine

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
)

// Source is the randomness used by a single battle.
// Implementations are owned by one trial and need not be safe for concurrent use.
type Source interface {
	// IntN returns a uniform int in [0, n). n must be positive.
	IntN(n int) int
}

// TrialKey derives the 32-byte key for a trial using HMAC-SHA256 keyed by the
// run seed, so every trial gets an independent stream no matter which worker
// runs it.
func TrialKey(runSeed string, trial uint64) [32]byte {
	h := hmac.New(sha256.New, []byte(runSeed))
	fmt.Fprintf(h, "trial:%d", trial)

	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// NewTrialSource returns the deterministic dice stream for one trial of a run.
func NewTrialSource(runSeed string, trial uint64) *rand.Rand {
	key := TrialKey(runSeed, trial)
	seed1 := binary.LittleEndian.Uint64(key[0:8])
	seed2 := binary.LittleEndian.Uint64(key[8:16])
	return rand.New(rand.NewPCG(seed1, seed2))
}

// NewRunSeed generates a random run seed using crypto/rand.
func NewRunSeed() (string, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return "", fmt.Errorf("read random seed: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// HashSeed creates a short SHA256 fingerprint of a seed for logging purposes
func HashSeed(seed string) string {
	if seed == "" {
		return "empty"
	}
	hash := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(hash[:])[:16]
}

// D6 rolls one six-sided die.
func D6(src Source) int {
	return src.IntN(6) + 1
}
