package lightclient

import "encoding/binary"

// Storage key schema. Singletons use fixed keys; maps append a
// big-endian u64 to their prefix.
var (
	stateKey        = []byte("lc:state")
	verifiedCallKey = []byte("lc:verified-call")
	stepKeyKey      = []byte("lc:vk:step")
	rotateKeyKey    = []byte("lc:vk:rotate")

	headerPrefix    = []byte("lc:h:")
	execRootPrefix  = []byte("lc:x:")
	timestampPrefix = []byte("lc:t:")
	poseidonPrefix  = []byte("lc:p:")
)

func mapKey(prefix []byte, n uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], n)
	return key
}

func headerKey(slot uint64) []byte    { return mapKey(headerPrefix, slot) }
func execRootKey(slot uint64) []byte  { return mapKey(execRootPrefix, slot) }
func timestampKey(slot uint64) []byte { return mapKey(timestampPrefix, slot) }
func poseidonKey(period uint64) []byte {
	return mapKey(poseidonPrefix, period)
}
