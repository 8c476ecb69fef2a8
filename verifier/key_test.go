package verifier

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Generator-based key fixture: alpha and every IC entry are the G1
// generator, beta/gamma/delta the G2 generator. Structurally valid for
// any arity.
const (
	g1GenX = "1"
	g1GenY = "2"

	g2GenX0 = "10857046999023057135944570762232829481370756359578518086990519993285655852781"
	g2GenX1 = "11559732032986387107991004021392285783925812861821192530917403151452391805634"
	g2GenY0 = "8495653923123431417604973247489272438418190587263600148770280649306958101930"
	g2GenY1 = "4082367875863433681332203403145435568316851327593401208105741076214120093531"
)

func devKeyJSON(nPublic int) string {
	g1 := fmt.Sprintf(`["%s", "%s", "1"]`, g1GenX, g1GenY)
	g2 := fmt.Sprintf(`[["%s", "%s"], ["%s", "%s"], ["1", "0"]]`, g2GenX0, g2GenX1, g2GenY0, g2GenY1)

	ic := make([]string, nPublic+1)
	for i := range ic {
		ic[i] = g1
	}
	return fmt.Sprintf(`{
 "protocol": "groth16",
 "curve": "bn128",
 "nPublic": %d,
 "vk_alpha_1": %s,
 "vk_beta_2": %s,
 "vk_gamma_2": %s,
 "vk_delta_2": %s,
 "IC": [%s]
}`, nPublic, g1, g2, g2, g2, strings.Join(ic, ", "))
}

func TestParseVerifyingKey(t *testing.T) {
	vk, err := ParseVerifyingKey([]byte(devKeyJSON(6)))
	require.NoError(t, err)
	require.Equal(t, 6, vk.NPublic)
	require.Len(t, vk.IC, 7)
	require.True(t, vk.Alpha.IsOnCurve())
	require.True(t, vk.Beta.IsOnCurve())
}

func TestParseVerifyingKeyRoundTrip(t *testing.T) {
	raw := []byte(devKeyJSON(2))
	vk1, err := ParseVerifyingKey(raw)
	require.NoError(t, err)
	vk2, err := ParseVerifyingKey(raw)
	require.NoError(t, err)
	require.Equal(t, vk1, vk2)
}

func TestParseVerifyingKeyTruncated(t *testing.T) {
	raw := devKeyJSON(6)
	_, err := ParseVerifyingKey([]byte(raw[:len(raw)/2]))
	require.ErrorIs(t, err, ErrMalformedVerificationKey)
}

func TestParseVerifyingKeyWrongCurve(t *testing.T) {
	raw := strings.Replace(devKeyJSON(6), `"curve": "bn128"`, `"curve": "bls12_381"`, 1)
	_, err := ParseVerifyingKey([]byte(raw))
	require.ErrorIs(t, err, ErrNotSupportedCurve)
}

func TestParseVerifyingKeyWrongProtocol(t *testing.T) {
	raw := strings.Replace(devKeyJSON(6), `"protocol": "groth16"`, `"protocol": "plonk"`, 1)
	_, err := ParseVerifyingKey([]byte(raw))
	require.ErrorIs(t, err, ErrNotSupportedProtocol)
}

func TestParseVerifyingKeyArityMismatch(t *testing.T) {
	raw := strings.Replace(devKeyJSON(6), `"nPublic": 6`, `"nPublic": 5`, 1)
	_, err := ParseVerifyingKey([]byte(raw))
	require.ErrorIs(t, err, ErrMalformedVerificationKey)
}

func TestParseVerifyingKeyArityCap(t *testing.T) {
	_, err := ParseVerifyingKey([]byte(devKeyJSON(MaxPublicInputsLength + 1)))
	require.ErrorIs(t, err, ErrMalformedVerificationKey)
}

func TestParseVerifyingKeyPointOffCurve(t *testing.T) {
	raw := strings.Replace(devKeyJSON(6),
		fmt.Sprintf(`["%s", "%s", "1"],`, g1GenX, g1GenY),
		`["1", "3", "1"],`, 1)
	_, err := ParseVerifyingKey([]byte(raw))
	require.ErrorIs(t, err, ErrMalformedVerificationKey)
}

func TestParseVerifyingKeyNonCanonicalCoordinate(t *testing.T) {
	// The base field modulus itself is not a canonical coordinate.
	raw := strings.Replace(devKeyJSON(6), `["1", "2", "1"],`,
		`["21888242871839275222246405745257275088696311157297823662689037894645226208583", "2", "1"],`, 1)
	_, err := ParseVerifyingKey([]byte(raw))
	require.ErrorIs(t, err, ErrMalformedVerificationKey)
}
