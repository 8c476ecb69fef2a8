// Package proofs verifies Merkle-Patricia proofs against 32-byte trie
// roots — in particular the execution state roots this module commits —
// so downstream consumers can check account and storage claims without
// holding the full state.
package proofs

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/trie"
)

// VerifyTrieProof checks proof nodes for key against root and returns
// the proven value. A nil value with nil error is a valid exclusion
// proof.
func VerifyTrieProof(root common.Hash, key []byte, nodes [][]byte) ([]byte, error) {
	return trie.VerifyProof(root, key, NodesToDatabase(nodes))
}

// VerifyAccountProof checks an account proof against an execution state
// root. State tries are secure tries: the lookup key is the keccak of
// the address.
func VerifyAccountProof(executionStateRoot common.Hash, address common.Address, nodes [][]byte) ([]byte, error) {
	return VerifyTrieProof(executionStateRoot, crypto.Keccak256(address.Bytes()), nodes)
}

// VerifyStorageProof checks a contract storage-slot proof against the
// contract's storage root.
func VerifyStorageProof(storageRoot common.Hash, slot common.Hash, nodes [][]byte) ([]byte, error) {
	return VerifyTrieProof(storageRoot, crypto.Keccak256(slot.Bytes()), nodes)
}

// ExtractProofNodes flattens a proof database into node blobs for
// network transmission.
func ExtractProofNodes(proofDb *memorydb.Database) [][]byte {
	var nodes [][]byte
	iter := proofDb.NewIterator(nil, nil)
	defer iter.Release()

	for iter.Next() {
		nodes = append(nodes, common.CopyBytes(iter.Value()))
	}
	return nodes
}

// NodesToDatabase rebuilds a proof database from transmitted node blobs,
// keyed by keccak as trie.VerifyProof expects.
func NodesToDatabase(nodes [][]byte) *memorydb.Database {
	proofDb := memorydb.New()
	for _, node := range nodes {
		_ = proofDb.Put(crypto.Keccak256(node), node)
	}
	return proofDb
}
