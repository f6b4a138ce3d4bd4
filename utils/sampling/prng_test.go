package sampling_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/bfvcore/utils/sampling"
)

func TestKeyedPRNGDeterministic(t *testing.T) {
	key := []byte{0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07, 0xa1, 0xd7, 0xe9, 0x7b, 0x3b, 0xce, 0xa1, 0xdb,
		0x42, 0xf3, 0xa6, 0xd5, 0x75, 0xd2, 0x0c, 0x92, 0xb7, 0x35, 0xce, 0x0c, 0xee, 0x09, 0x7c, 0x98}

	ha, err := sampling.NewKeyedPRNG(key)
	require.NoError(t, err)
	hb, err := sampling.NewKeyedPRNG(key)
	require.NoError(t, err)

	sum0 := make([]byte, 512)
	sum1 := make([]byte, 512)

	for i := 0; i < 128; i++ {
		_, err := hb.Read(sum1)
		require.NoError(t, err)
	}
	hb.Reset()

	_, err = ha.Read(sum0)
	require.NoError(t, err)
	_, err = hb.Read(sum1)
	require.NoError(t, err)

	require.Equal(t, sum0, sum1)
}

func TestKeyedPRNGDifferentSeedsDiverge(t *testing.T) {
	a, err := sampling.NewKeyedPRNG([]byte("seed-a-seed-a-seed-a-seed-a-0000"))
	require.NoError(t, err)
	b, err := sampling.NewKeyedPRNG([]byte("seed-b-seed-b-seed-b-seed-b-0000"))
	require.NoError(t, err)

	bufA := make([]byte, 64)
	bufB := make([]byte, 64)
	_, err = a.Read(bufA)
	require.NoError(t, err)
	_, err = b.Read(bufB)
	require.NoError(t, err)

	require.NotEqual(t, bufA, bufB)
}

// sequentialSource is a fill-rng that emits a monotonically increasing byte
// counter, used to check BufferedRNG's sequencing.
type sequentialSource struct{ next byte }

func (s *sequentialSource) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = s.next
		s.next++
	}
	return len(p), nil
}

func (s *sequentialSource) Reset() { s.next = 0 }

func TestBufferedRNGSequencing(t *testing.T) {
	buffered := sampling.NewBufferedRNG(&sequentialSource{}, 7)

	first := make([]byte, 3)
	_, err := buffered.Read(first)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2}, first)

	second := make([]byte, 7)
	_, err = buffered.Read(second)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4, 5, 6, 7, 8, 9}, second)

	third := make([]byte, 7)
	_, err = buffered.Read(third)
	require.NoError(t, err)
	require.Equal(t, []byte{10, 11, 12, 13, 14, 15, 16}, third)
}
