//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package stablehash derives reproducible pseudo-random values from string
// keys. Values depend only on the key bytes, never on process state, so
// synthetic attributes such as route coordinates and fallback weather are
// identical across runs.
package stablehash

import (
	"hash/fnv"
)

// unitBuckets is the resolution of ToUnit.
const unitBuckets = 10_000_000

// Sum32 returns the 32-bit FNV-1a hash of key.
func Sum32(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}

// ToUnit maps key to a value in [0, 1).
func ToUnit(key string) float64 {
	return float64(Sum32(key)%unitBuckets) / unitBuckets
}

// ID maps key to an integer in [0, modulus) using 64-bit FNV-1a.
func ID(key string, modulus uint64) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return int64(h.Sum64() % modulus)
}

// Reverse returns key with its characters in reverse order. It is used to
// derive a second, uncorrelated value from the same key.
func Reverse(key string) string {
	r := []rune(key)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
