// Copyright 2025 Certen Protocol

package entanglement

import (
	"github.com/nicksdigital/hydra-news/pkg/commitment"
	"github.com/nicksdigital/hydra-news/pkg/zkp"
)

// GeoCommitment builds a 32-byte commitment over a source's claimed
// geolocation. The fields are canonicalized via pkg/commitment (the same
// deterministic-key-order JSON encoding used for structured commitments
// elsewhere in this module), split into fixed-size chunks, and folded
// through the ZKP engine's XOR-fold-then-SHA256 entanglement primitive.
// The fold is then hashed once more via pkg/commitment's own hashing
// helper so the commitment is keyed to this specific payload framing
// rather than reusable as a bare entanglement fingerprint.
func GeoCommitment(lat, lon float64, country, region string) ([32]byte, error) {
	canon, err := commitment.MarshalCanonical(map[string]interface{}{
		"lat":     lat,
		"lon":     lon,
		"country": country,
		"region":  region,
	})
	if err != nil {
		return [32]byte{}, err
	}

	chunks := chunk(canon, 8)
	folded, err := zkp.ApplyEntanglement(chunks)
	if err != nil {
		return [32]byte{}, err
	}

	out := commitment.HashConcat(folded)
	var result [32]byte
	copy(result[:], out)
	return result, nil
}

// chunk splits data into size-byte blocks, zero-padding the final block so
// every chunk has equal length (required by zkp.ApplyEntanglement).
func chunk(data []byte, size int) [][]byte {
	var chunks [][]byte
	for i := 0; i < len(data); i += size {
		end := i + size
		var c []byte
		if end <= len(data) {
			c = make([]byte, size)
			copy(c, data[i:end])
		} else {
			c = make([]byte, size)
			copy(c, data[i:])
		}
		chunks = append(chunks, c)
	}
	if len(chunks) == 0 {
		chunks = append(chunks, make([]byte, size))
	}
	return chunks
}
