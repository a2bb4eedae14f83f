// ABOUTME: Binary codec for embedding vectors stored as SQLite BLOBs
// ABOUTME: Little-endian float64 encoding, 8 bytes per element
package sqlite

import (
	"encoding/binary"
	"math"
)

// vectorToBlob converts a float64 slice to a binary blob.
// Nil and empty vectors encode to an empty blob.
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob back to a float64 slice.
// An empty or nil blob decodes to nil.
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	if count == 0 {
		return nil
	}
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}
