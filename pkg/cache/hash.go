package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion changes whenever the encoding of cached values changes, so old
// entries are never decoded with a new layout.
const keyVersion = "v1"

// hashKey returns "<kind>:v1:<digest>", the digest covering parts encoded
// as JSON. Parts are validated options, which always encode.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + keyVersion + ":" + Hash(data)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
