package verifier

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// proofLen is the serialized proof size: compressed A (G1) | B (G2) | C (G1).
const proofLen = bn254.SizeOfG1AffineCompressed +
	bn254.SizeOfG2AffineCompressed +
	bn254.SizeOfG1AffineCompressed

// ProofBackend verifies a proof against a decoded verifying key and an
// ordered public-input vector. The state machine is written against this
// interface so the proof system can be swapped without touching domain
// logic.
type ProofBackend interface {
	Verify(vk *VerifyingKey, publicInputs []*big.Int, proof []byte) (bool, error)
}

// Groth16 is the production backend: the BN254 pairing-product check
//
//	e(A, B) = e(alpha, beta) * e(vk_x, gamma) * e(C, delta)
type Groth16 struct{}

func (Groth16) Verify(vk *VerifyingKey, publicInputs []*big.Int, proof []byte) (bool, error) {
	if len(proof) == 0 {
		return false, ErrProofIsEmpty
	}
	if len(proof) > MaxProofLength {
		return false, ErrTooLongProof
	}
	if len(publicInputs) != vk.NPublic {
		return false, fmt.Errorf("%w: got %d inputs, key expects %d",
			ErrInvalidPublicInputs, len(publicInputs), vk.NPublic)
	}

	a, b, c, err := decodeProof(proof)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	vkx := vk.IC[0]
	for i, input := range publicInputs {
		var term bn254.G1Affine
		term.ScalarMultiplication(&vk.IC[i+1], new(big.Int).Mod(input, fr.Modulus()))
		vkx.Add(&vkx, &term)
	}

	var negA bn254.G1Affine
	negA.Neg(&a)

	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{negA, vk.Alpha, vkx, c},
		[]bn254.G2Affine{b, vk.Beta, vk.Gamma, vk.Delta},
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	return ok, nil
}

// decodeProof deserializes the three compressed proof points. SetBytes
// enforces canonical encoding, curve membership and the prime-order
// subgroup.
func decodeProof(proof []byte) (a bn254.G1Affine, b bn254.G2Affine, c bn254.G1Affine, err error) {
	if len(proof) != proofLen {
		err = fmt.Errorf("proof must be %d bytes, got %d", proofLen, len(proof))
		return
	}
	off := 0
	if _, err = a.SetBytes(proof[off : off+bn254.SizeOfG1AffineCompressed]); err != nil {
		err = fmt.Errorf("proof point A: %v", err)
		return
	}
	off += bn254.SizeOfG1AffineCompressed
	if _, err = b.SetBytes(proof[off : off+bn254.SizeOfG2AffineCompressed]); err != nil {
		err = fmt.Errorf("proof point B: %v", err)
		return
	}
	off += bn254.SizeOfG2AffineCompressed
	if _, err = c.SetBytes(proof[off : off+bn254.SizeOfG1AffineCompressed]); err != nil {
		err = fmt.Errorf("proof point C: %v", err)
		return
	}
	return
}
