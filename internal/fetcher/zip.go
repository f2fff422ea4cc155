package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractMember copies one named member of a zip archive to destPath.
// Member matching is case-insensitive on the base name, since the MOI batch
// archives have shipped both "B_lvr_land_A.csv" and "b_lvr_land_a.csv".
func ExtractMember(zipPath, member, destPath string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrapf(err, "open zip %s", zipPath)
	}
	defer zr.Close() //nolint:errcheck

	for _, zf := range zr.File {
		if !strings.EqualFold(baseName(zf.Name), member) {
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return eris.Wrapf(err, "open zip member %s", zf.Name)
		}
		defer rc.Close() //nolint:errcheck

		out, err := os.Create(destPath)
		if err != nil {
			return eris.Wrapf(err, "create %s", destPath)
		}
		defer out.Close() //nolint:errcheck

		if _, err := io.Copy(out, rc); err != nil {
			return eris.Wrapf(err, "extract %s", zf.Name)
		}
		return nil
	}

	return eris.Errorf("zip %s: member %s not found", zipPath, member)
}

func baseName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}
