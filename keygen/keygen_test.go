package keygen_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/kysee/zk-bridge/keygen"
	"github.com/kysee/zk-bridge/verifier"
)

func TestSetupExportsParsableKeys(t *testing.T) {
	stepArtifacts, err := keygen.Setup(&keygen.StepCircuit{})
	require.NoError(t, err)
	vk, err := verifier.ParseVerifyingKey(stepArtifacts.VKJSON)
	require.NoError(t, err)
	require.Equal(t, 6, vk.NPublic)
	require.LessOrEqual(t, len(stepArtifacts.VKJSON), verifier.MaxVerificationKeyLength)

	rotateArtifacts, err := keygen.Setup(&keygen.RotateCircuit{})
	require.NoError(t, err)
	vk, err = verifier.ParseVerifyingKey(rotateArtifacts.VKJSON)
	require.NoError(t, err)
	require.Equal(t, 7, vk.NPublic)

	fulfillArtifacts, err := keygen.Setup(&keygen.FulfillCircuit{})
	require.NoError(t, err)
	vk, err = verifier.ParseVerifyingKey(fulfillArtifacts.VKJSON)
	require.NoError(t, err)
	require.Equal(t, 2, vk.NPublic)
}

func TestBindingSum(t *testing.T) {
	require.Equal(t, big.NewInt(6), keygen.BindingSum([]*big.Int{
		big.NewInt(1), big.NewInt(2), big.NewInt(3),
	}))

	// Sums wrap in the scalar field.
	almost := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	require.Equal(t, big.NewInt(1), keygen.BindingSum([]*big.Int{almost, big.NewInt(2)}))
}
