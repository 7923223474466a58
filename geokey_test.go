package qtempo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeoKey(t *testing.T) {
	key, err := ParseGeoKey("12345 Example Town")
	require.NoError(t, err)
	assert.Equal(t, "12345", key.Code)
	assert.Equal(t, "Example Town", key.Place)
	assert.Equal(t, "12345 Example Town", key.Raw)
}

func TestParseGeoKeyMultiWordPlace(t *testing.T) {
	key, err := ParseGeoKey("54975 MUNICIPIUL CLUJ-NAPOCA")
	require.NoError(t, err)
	assert.Equal(t, "54975", key.Code)
	assert.Equal(t, "MUNICIPIUL CLUJ-NAPOCA", key.Place)
}

func TestParseGeoKeyRejectsNonMatching(t *testing.T) {
	for _, input := range []string{"Example Town", "", "TOTAL", "12345", "12345 ", " 12345 Town"} {
		_, err := ParseGeoKey(input)
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr, "input %q", input)
		assert.Equal(t, input, parseErr.Input)
	}
}

func TestGeoKeyEqualByCodeOnly(t *testing.T) {
	a := &GeoKey{Code: "100", Place: "A"}
	b := &GeoKey{Code: "100", Place: "B"}
	c := &GeoKey{Code: "200", Place: "A"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	var nilKey *GeoKey
	assert.True(t, nilKey.Equal(nil))
}

func TestParseErrorIsNotFieldNotFound(t *testing.T) {
	_, err := ParseGeoKey("bad")
	assert.False(t, errors.Is(err, ErrFieldNotFound))
}
