package scenario

import (
	"fmt"
	"math/rand"

	"github.com/cespare/xxhash/v2"
)

// Round seed bounds, matching the engine's next-seed range so instructor-set
// and engine-chained seeds are indistinguishable.
const (
	seedLow  = 10000
	seedHigh = 99999
)

// DeriveSeed deterministically derives the round seed for a team and round
// number. The team-round key is hashed with xxhash64, a fixed non-cryptographic
// hash, so derivation is portable and reproducible across processes.
func DeriveSeed(teamID string, round int) int64 {
	key := fmt.Sprintf("%s-%d", teamID, round)
	rng := rand.New(rand.NewSource(int64(xxhash.Sum64String(key))))
	return int64(seedLow + rng.Intn(seedHigh-seedLow+1))
}

// TeamSeed derives a stable per-team seed used to vary scenario flavour text
// between teams.
func TeamSeed(teamID string) int64 {
	return int64(xxhash.Sum64String(teamID) % 100000)
}
