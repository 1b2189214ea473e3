package oid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

// Package oid generates the 24-hex-character identifiers used as primary keys.
// The layout mirrors a BSON ObjectID (4-byte timestamp, 5-byte process random,
// 3-byte counter) so ids issued by the previous document-store deployment keep
// validating and sorting alongside new ones.

const encodedLen = 24

var (
	processRandom = mustRandomBytes(5)
	counter       = mustRandomCounter()
)

// New returns a fresh 24-character lowercase hex identifier.
func New() string {
	var raw [12]byte
	binary.BigEndian.PutUint32(raw[0:4], uint32(time.Now().Unix()))
	copy(raw[4:9], processRandom)

	seq := atomic.AddUint32(&counter, 1)
	raw[9] = byte(seq >> 16)
	raw[10] = byte(seq >> 8)
	raw[11] = byte(seq)

	return hex.EncodeToString(raw[:])
}

// IsValid reports whether value is a well-formed 24-hex identifier.
func IsValid(value string) bool {
	if len(value) != encodedLen {
		return false
	}
	for i := 0; i < encodedLen; i++ {
		c := value[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Parse validates value and returns its lowercase canonical form.
func Parse(value string) (string, error) {
	if !IsValid(value) {
		return "", fmt.Errorf("invalid object id %q", value)
	}
	raw, err := hex.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("invalid object id %q: %w", value, err)
	}
	return hex.EncodeToString(raw), nil
}

// Timestamp extracts the creation time embedded in a valid identifier.
func Timestamp(value string) (time.Time, error) {
	canonical, err := Parse(value)
	if err != nil {
		return time.Time{}, err
	}
	raw, _ := hex.DecodeString(canonical)
	secs := binary.BigEndian.Uint32(raw[0:4])
	return time.Unix(int64(secs), 0).UTC(), nil
}

func mustRandomBytes(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("oid: read random bytes: %v", err))
	}
	return buf
}

func mustRandomCounter() uint32 {
	buf := mustRandomBytes(4)
	return binary.BigEndian.Uint32(buf)
}
