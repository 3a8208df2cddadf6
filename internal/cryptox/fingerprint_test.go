package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type photo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func TestFingerprint_DeterministicAndOrderSensitive(t *testing.T) {
	a := []photo{{1, "a"}, {2, "b"}}
	b := []photo{{1, "a"}, {2, "b"}}
	c := []photo{{2, "b"}, {1, "a"}}

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	fc, err := Fingerprint(c)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)

	raw, err := hex.DecodeString(fa)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestFingerprint_UnencodableValue(t *testing.T) {
	_, err := Fingerprint(make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode value for fingerprint")
}

func TestFingerprintBytes_KnownVector(t *testing.T) {
	// BLAKE2b-256 of the empty input
	assert.Equal(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8", FingerprintBytes(nil))
}
