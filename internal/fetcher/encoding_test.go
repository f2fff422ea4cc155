package fetcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/traditionalchinese"
)

func TestEnsureUTF8File_Big5(t *testing.T) {
	original := "鄉鎮市區,交易年月日\n北屯區,1130515\n"
	big5, err := traditionalchinese.Big5.NewEncoder().Bytes([]byte(original))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, big5, 0o644))

	require.NoError(t, EnsureUTF8File(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(b))
}

func TestEnsureUTF8File_AlreadyUTF8(t *testing.T) {
	content := "鄉鎮市區\n北屯區\n"
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, EnsureUTF8File(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(b))
}
