package test

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ParseTestVectors reads the named JSON file from the testdata directory of
// the calling package and unmarshals it into target.
func ParseTestVectors(t testing.TB, fileName string, target any) {
	fileBytes, err := os.ReadFile(filepath.Join("testdata", fileName))
	require.NoError(t, err)

	err = json.Unmarshal(fileBytes, target)
	require.NoError(t, err)
}

// ParseHex decodes a hex string that is known to be valid, failing the test
// otherwise. Upper and lower case digits are accepted.
func ParseHex(t testing.TB, str string) []byte {
	t.Helper()

	b, err := hex.DecodeString(strings.ToLower(str))
	require.NoError(t, err)

	return b
}
