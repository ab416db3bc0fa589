package search

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

const (
	truthTablePrefix byte = 0x00
	checkpointPrefix byte = 0x01
)

// Digest fingerprints a truth table: SHAKE-256 truncated to 16 bytes over
// the table packed eight points per byte, first point in the MSB.
func Digest(tt []uint8) string {
	buf := make([]byte, 1+(len(tt)+7)/8)
	buf[0] = truthTablePrefix
	for x, b := range tt {
		buf[1+x/8] |= (b & 1) << (7 - x%8)
	}
	h := shake16(buf)
	return hex.EncodeToString(h[:])
}

func shake16(data ...[]byte) [16]byte {
	var out [16]byte
	h := sha3.NewShake256()
	for _, d := range data {
		_, _ = h.Write(d)
	}
	_, _ = h.Read(out[:])
	return out
}
