package lightclient

import (
	"github.com/ethereum/go-ethereum/common"
)

// Origin is the dispatch origin of a call: either signed by a 32-byte
// account identity or the root governance origin.
type Origin struct {
	signer common.Hash
	signed bool
	root   bool
}

// SignedOrigin builds the origin of a call signed by who.
func SignedOrigin(who common.Hash) Origin {
	return Origin{signer: who, signed: true}
}

// RootOrigin builds the governance origin.
func RootOrigin() Origin {
	return Origin{root: true}
}

// EnsureSigned returns the signing account, or ErrBadOrigin for root or
// unset origins.
func (o Origin) EnsureSigned() (common.Hash, error) {
	if !o.signed {
		return common.Hash{}, ErrBadOrigin
	}
	return o.signer, nil
}

// EnsureRoot fails with ErrBadOrigin unless the origin is root.
func (o Origin) EnsureRoot() error {
	if !o.root {
		return ErrBadOrigin
	}
	return nil
}
