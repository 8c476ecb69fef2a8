// Package verifier implements Groth16 proof verification over BN254 for
// verifying keys in the snarkjs JSON layout.
package verifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"

	"github.com/kysee/zk-bridge/types"
)

const (
	// MaxPublicInputsLength caps the public-input arity of any key.
	MaxPublicInputsLength = 9
	// MaxProofLength and MaxVerificationKeyLength are the wire-level
	// ceilings, re-exported for verification-time enforcement.
	MaxProofLength           = types.MaxProofLength
	MaxVerificationKeyLength = types.MaxVerificationKeyLength

	// SupportedCurve and SupportedProtocol are the only accepted values
	// of the snarkjs curve/protocol fields.
	SupportedCurve    = "bn128"
	SupportedProtocol = "groth16"
)

var (
	ErrTooLongVerificationKey   = errors.New("verification key exceeds maximum length")
	ErrMalformedVerificationKey = errors.New("malformed verification key")
	ErrNotSupportedCurve        = errors.New("verification key curve is not supported")
	ErrNotSupportedProtocol     = errors.New("verification key protocol is not supported")
	ErrProofIsEmpty             = errors.New("proof is empty")
	ErrTooLongProof             = errors.New("proof exceeds maximum length")
	ErrInvalidProof             = errors.New("invalid proof encoding")
	ErrInvalidPublicInputs      = errors.New("public inputs do not match key arity")
)

// VerifyingKey is a decoded Groth16 verifying key. IC has length
// NPublic+1; all points are validated on-curve and in the prime-order
// subgroup at decode time.
type VerifyingKey struct {
	Protocol string
	Curve    string
	NPublic  int

	Alpha bn254.G1Affine
	Beta  bn254.G2Affine
	Gamma bn254.G2Affine
	Delta bn254.G2Affine
	IC    []bn254.G1Affine
}

// verifyingKeyJSON mirrors the snarkjs export layout: G1 points as
// [x, y, z] decimal strings, G2 points as pairs of Fp2 coordinates.
type verifyingKeyJSON struct {
	Protocol string     `json:"protocol"`
	Curve    string     `json:"curve"`
	NPublic  int        `json:"nPublic"`
	AlphaG1  []string   `json:"vk_alpha_1"`
	BetaG2   [][]string `json:"vk_beta_2"`
	GammaG2  [][]string `json:"vk_gamma_2"`
	DeltaG2  [][]string `json:"vk_delta_2"`
	IC       [][]string `json:"IC"`
}

// ParseVerifyingKey decodes and validates a snarkjs JSON verifying key.
func ParseVerifyingKey(data []byte) (*VerifyingKey, error) {
	var raw verifyingKeyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedVerificationKey, err)
	}
	if raw.Curve != SupportedCurve {
		return nil, ErrNotSupportedCurve
	}
	if raw.Protocol != SupportedProtocol {
		return nil, ErrNotSupportedProtocol
	}
	if raw.NPublic < 0 || raw.NPublic > MaxPublicInputsLength {
		return nil, fmt.Errorf("%w: nPublic %d out of range", ErrMalformedVerificationKey, raw.NPublic)
	}
	if len(raw.IC) != raw.NPublic+1 {
		return nil, fmt.Errorf("%w: IC length %d does not match arity %d",
			ErrMalformedVerificationKey, len(raw.IC), raw.NPublic)
	}

	vk := &VerifyingKey{
		Protocol: raw.Protocol,
		Curve:    raw.Curve,
		NPublic:  raw.NPublic,
		IC:       make([]bn254.G1Affine, len(raw.IC)),
	}

	var err error
	if vk.Alpha, err = decodeG1(raw.AlphaG1); err != nil {
		return nil, fmt.Errorf("%w: vk_alpha_1: %v", ErrMalformedVerificationKey, err)
	}
	if vk.Beta, err = decodeG2(raw.BetaG2); err != nil {
		return nil, fmt.Errorf("%w: vk_beta_2: %v", ErrMalformedVerificationKey, err)
	}
	if vk.Gamma, err = decodeG2(raw.GammaG2); err != nil {
		return nil, fmt.Errorf("%w: vk_gamma_2: %v", ErrMalformedVerificationKey, err)
	}
	if vk.Delta, err = decodeG2(raw.DeltaG2); err != nil {
		return nil, fmt.Errorf("%w: vk_delta_2: %v", ErrMalformedVerificationKey, err)
	}
	for i, coords := range raw.IC {
		if vk.IC[i], err = decodeG1(coords); err != nil {
			return nil, fmt.Errorf("%w: IC[%d]: %v", ErrMalformedVerificationKey, i, err)
		}
	}
	return vk, nil
}

// decodeFp parses a decimal base-field coordinate, rejecting
// non-canonical values.
func decodeFp(s string) (fp.Element, error) {
	var el fp.Element
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return el, fmt.Errorf("coordinate %q is not a decimal integer", s)
	}
	if v.Sign() < 0 || v.Cmp(fp.Modulus()) >= 0 {
		return el, fmt.Errorf("coordinate %q is not a canonical field element", s)
	}
	el.SetBigInt(v)
	return el, nil
}

func decodeG1(coords []string) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	if len(coords) != 2 && len(coords) != 3 {
		return p, fmt.Errorf("G1 point has %d coordinates", len(coords))
	}
	var err error
	if p.X, err = decodeFp(coords[0]); err != nil {
		return p, err
	}
	if p.Y, err = decodeFp(coords[1]); err != nil {
		return p, err
	}
	if len(coords) == 3 {
		if err := checkProjectiveZ(coords[2], "1"); err != nil {
			return p, err
		}
	}
	if !p.IsOnCurve() || !p.IsInSubGroup() {
		return p, fmt.Errorf("G1 point is not on the curve")
	}
	return p, nil
}

func decodeG2(coords [][]string) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	if len(coords) != 2 && len(coords) != 3 {
		return p, fmt.Errorf("G2 point has %d coordinates", len(coords))
	}
	for _, pair := range coords {
		if len(pair) != 2 {
			return p, fmt.Errorf("G2 coordinate is not an Fp2 pair")
		}
	}
	var err error
	if p.X.A0, err = decodeFp(coords[0][0]); err != nil {
		return p, err
	}
	if p.X.A1, err = decodeFp(coords[0][1]); err != nil {
		return p, err
	}
	if p.Y.A0, err = decodeFp(coords[1][0]); err != nil {
		return p, err
	}
	if p.Y.A1, err = decodeFp(coords[1][1]); err != nil {
		return p, err
	}
	if len(coords) == 3 {
		if err := checkProjectiveZ(coords[2][0], "1"); err != nil {
			return p, err
		}
		if err := checkProjectiveZ(coords[2][1], "0"); err != nil {
			return p, err
		}
	}
	if !p.IsOnCurve() || !p.IsInSubGroup() {
		return p, fmt.Errorf("G2 point is not on the curve")
	}
	return p, nil
}

// checkProjectiveZ enforces the affine form snarkjs exports (z = 1 for
// G1, z = (1, 0) for G2).
func checkProjectiveZ(s, want string) error {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("z coordinate %q is not a decimal integer", s)
	}
	w, _ := new(big.Int).SetString(want, 10)
	if v.Cmp(w) != 0 {
		return fmt.Errorf("point is not in affine form (z = %s)", s)
	}
	return nil
}
