// Package random provides seed generation and resolution for dice rolls.
//
// It uses crypto/rand to generate high-entropy seeds suitable for
// initializing the pseudo-random sources that make rolls reproducible.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
)

// SeedSource records where the seed of a roll came from.
type SeedSource string

const (
	// SeedSourceClient marks a seed supplied by the caller.
	SeedSourceClient SeedSource = "client"
	// SeedSourceServer marks a seed generated by the service.
	SeedSourceServer SeedSource = "server"
)

// Algorithm names the pseudo-random generator used by NewRand.
const Algorithm = "math/rand"

var errSeedOutOfRange = errors.New("seed must be non-negative")

// ErrSeedOutOfRange returns the error reported for client seeds below zero.
func ErrSeedOutOfRange() error {
	return errSeedOutOfRange
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:]) >> 1), nil
}

// ResolveSeed picks the seed for a roll: the requested seed when present,
// otherwise one produced by generate.
func ResolveSeed(requested *int64, generate func() (int64, error)) (int64, SeedSource, error) {
	if requested != nil {
		if *requested < 0 {
			return 0, "", errSeedOutOfRange
		}
		return *requested, SeedSourceClient, nil
	}
	if generate == nil {
		return 0, "", errors.New("seed generator is required")
	}
	seed, err := generate()
	if err != nil {
		return 0, "", err
	}
	return seed, SeedSourceServer, nil
}

// NewRand returns a deterministic source for seed. The source is not safe
// for concurrent use.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
