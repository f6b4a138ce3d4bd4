package bfv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/bfvcore/ring"
)

func TestNamedParameterSetsAreDistinctAndNTTFriendly(t *testing.T) {
	sets := []ParametersLiteral{
		N4096LogQ272828LogT5,
		N8192LogQ3x55LogT42,
		N16384Classical128,
	}

	for _, pl := range sets {
		params, err := NewParametersFromLiteral(pl)
		require.NoError(t, err)
		require.Equal(t, 1<<pl.LogN, params.N())
		require.Equal(t, len(pl.Q), params.QCount())
		require.False(t, params.HasSpecialModulus())

		seen := make(map[uint64]bool, len(pl.Q))
		for _, qi := range pl.Q {
			require.False(t, seen[qi], "duplicate modulus %d in %+v", qi, pl)
			seen[qi] = true
			require.Equal(t, uint64(1), qi%uint64(2*params.N()), "modulus %d is not NTT-friendly for N=%d", qi, params.N())
		}
	}
}

func TestNamedParameterSetsHaveIncreasingScale(t *testing.T) {
	small, err := NewParametersFromLiteral(N4096LogQ272828LogT5)
	require.NoError(t, err)
	large, err := NewParametersFromLiteral(N16384Classical128)
	require.NoError(t, err)

	require.Less(t, small.N(), large.N())
	require.Less(t, small.QCount(), large.QCount())
}

func TestNewParametersFromLiteralRejectsEmptyModulus(t *testing.T) {
	_, err := NewParametersFromLiteral(ParametersLiteral{LogN: 10, T: 17})
	require.ErrorIs(t, err, ErrEmptyModulus)
}

func TestNewParametersFromLiteralRejectsZeroPlaintextModulus(t *testing.T) {
	_, err := NewParametersFromLiteral(ParametersLiteral{LogN: 10, Q: []uint64{1}})
	require.ErrorIs(t, err, ErrInvalidEncryptionParams)
}

func TestNewParametersFromLiteralRejectsUndersizedDegree(t *testing.T) {
	_, err := NewParametersFromLiteral(ParametersLiteral{LogN: 4, Q: []uint64{1}, T: 17})
	require.ErrorIs(t, err, ErrInvalidEncryptionParams)
}

func TestNewParametersFromLiteralWithSpecialModulus(t *testing.T) {
	pl := N4096LogQ272828LogT5
	special, err := ring.NTTFriendlyPrime(31, 1<<pl.LogN)
	require.NoError(t, err)
	pl.P = special

	params, err := NewParametersFromLiteral(pl)
	require.NoError(t, err)
	require.True(t, params.HasSpecialModulus())
	require.Equal(t, special, params.SpecialModulus())
	require.NotNil(t, params.RingQP())
	require.Equal(t, params.QCount()+1, params.RingQP().ModuliCount())
}
