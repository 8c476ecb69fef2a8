package proofs

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"
	"github.com/stretchr/testify/require"
)

// buildStateTrie builds a secure-trie shaped state: keys are keccaks of
// addresses.
func buildStateTrie(t *testing.T, entries map[common.Address][]byte) (*trie.Trie, common.Hash) {
	t.Helper()
	db := rawdb.NewMemoryDatabase()
	tr := trie.NewEmpty(triedb.NewDatabase(db, nil))

	for addr, value := range entries {
		tr.MustUpdate(crypto.Keccak256(addr.Bytes()), value)
	}
	return tr, tr.Hash()
}

func TestVerifyAccountProof(t *testing.T) {
	target := common.HexToAddress("0x5d9f6433771c734130fea4bc814f7be3eb454331")
	entries := map[common.Address][]byte{
		target: []byte("target account"),
		common.HexToAddress("0x01"): []byte("account one"),
		common.HexToAddress("0x02"): []byte("account two"),
		common.HexToAddress("0x03"): []byte("account three"),
	}
	tr, root := buildStateTrie(t, entries)

	proofDb := memorydb.New()
	require.NoError(t, tr.Prove(crypto.Keccak256(target.Bytes()), proofDb))

	// Simulate network transmission of the raw nodes.
	nodes := ExtractProofNodes(proofDb)
	require.NotEmpty(t, nodes)

	value, err := VerifyAccountProof(root, target, nodes)
	require.NoError(t, err)
	require.Equal(t, []byte("target account"), value)
}

func TestVerifyTrieProofRejectsWrongRoot(t *testing.T) {
	target := common.HexToAddress("0x01")
	tr, _ := buildStateTrie(t, map[common.Address][]byte{
		target: []byte("value"),
	})

	proofDb := memorydb.New()
	require.NoError(t, tr.Prove(crypto.Keccak256(target.Bytes()), proofDb))

	_, err := VerifyAccountProof(common.HexToHash("0xdead"), target, ExtractProofNodes(proofDb))
	require.Error(t, err)
}

func TestVerifyTrieProofRejectsTamperedNodes(t *testing.T) {
	target := common.HexToAddress("0x01")
	tr, root := buildStateTrie(t, map[common.Address][]byte{
		target:                      []byte("value"),
		common.HexToAddress("0x02"): []byte("other"),
	})

	proofDb := memorydb.New()
	require.NoError(t, tr.Prove(crypto.Keccak256(target.Bytes()), proofDb))

	nodes := ExtractProofNodes(proofDb)
	nodes[0] = append([]byte{0xff}, nodes[0]...)

	_, err := VerifyTrieProof(root, crypto.Keccak256(target.Bytes()), nodes)
	require.Error(t, err)
}

func TestNodesToDatabaseRoundTrip(t *testing.T) {
	nodes := [][]byte{[]byte("node one"), []byte("node two")}
	db := NodesToDatabase(nodes)

	got, err := db.Get(crypto.Keccak256([]byte("node one")))
	require.NoError(t, err)
	require.Equal(t, []byte("node one"), got)
}
