package hashing

import (
	"strings"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/commonerrors/errortest"
)

func TestHashingAlgorithms(t *testing.T) {
	for _, htype := range []string{HashSha256, HashMurmur, HashXXHash} {
		t.Run(htype, func(t *testing.T) {
			algo, err := NewHashingAlgorithm(htype)
			require.NoError(t, err)
			assert.Equal(t, htype, algo.GetType())

			content := faker.Sentence()
			digest1, err := algo.Calculate(strings.NewReader(content))
			require.NoError(t, err)
			assert.NotEmpty(t, digest1)

			digest2, err := algo.CalculateBytes([]byte(content))
			require.NoError(t, err)
			assert.Equal(t, digest1, digest2)

			other, err := algo.CalculateBytes([]byte(content + faker.Word()))
			require.NoError(t, err)
			assert.NotEqual(t, digest1, other)
		})
	}
}

func TestHashingErrors(t *testing.T) {
	_, err := NewHashingAlgorithm(faker.Word())
	errortest.AssertError(t, err, commonerrors.ErrNotFound)

	algo, err := NewHashingAlgorithm(HashXXHash)
	require.NoError(t, err)
	_, err = algo.Calculate(nil)
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
}

func TestCalculateXXHash(t *testing.T) {
	payload := []byte(faker.Paragraph())
	digest := CalculateXXHash(payload)
	assert.NotEmpty(t, digest)
	assert.Equal(t, digest, CalculateXXHash(payload))
	assert.NotEqual(t, digest, CalculateXXHash([]byte(faker.Sentence())))
}
