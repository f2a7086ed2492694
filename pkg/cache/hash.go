package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"hash"
)

// hashKey builds "prefix:hex(sha256(parts))". String parts are written
// length-prefixed so ("ab", "c") and ("a", "bc") differ; other parts are
// hashed as their JSON encoding.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			writePart(h, []byte(v))
		case []byte:
			writePart(h, v)
		default:
			data, _ := json.Marshal(v)
			writePart(h, data)
		}
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

func writePart(h hash.Hash, b []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(b)))
	h.Write(n[:])
	h.Write(b)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
