package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	zw := zip.NewWriter(f)
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestExtractMember(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"a_lvr_land_a.csv": "taipei",
		"b_lvr_land_a.csv": "taichung",
	})

	dest := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ExtractMember(zipPath, "b_lvr_land_a.csv", dest))

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "taichung", string(b))
}

func TestExtractMember_CaseInsensitiveAndNested(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"csv/B_lvr_land_A.csv": "taichung",
	})

	dest := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ExtractMember(zipPath, "b_lvr_land_a.csv", dest))

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "taichung", string(b))
}

func TestExtractMember_Missing(t *testing.T) {
	zipPath := writeZip(t, map[string]string{"other.txt": "x"})
	err := ExtractMember(zipPath, "b_lvr_land_a.csv", filepath.Join(t.TempDir(), "out.csv"))
	assert.Error(t, err)
}
