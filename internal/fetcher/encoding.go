package fetcher

import (
	"os"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/traditionalchinese"
)

// DecodeBig5 transcodes Big5 bytes to UTF-8.
func DecodeBig5(b []byte) ([]byte, error) {
	out, err := traditionalchinese.Big5.NewDecoder().Bytes(b)
	if err != nil {
		return nil, eris.Wrap(err, "decode big5")
	}
	return out, nil
}

// EnsureUTF8File rewrites the file in place as UTF-8 when it is Big5-encoded.
// Older MOI extracts shipped Big5; the aggregator only accepts UTF-8.
func EnsureUTF8File(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if utf8.Valid(b) {
		return nil
	}

	decoded, err := DecodeBig5(b)
	if err != nil {
		return eris.Wrapf(err, "transcode %s", path)
	}
	if !utf8.Valid(decoded) {
		return eris.Errorf("transcode %s: output still not valid UTF-8", path)
	}

	zap.L().Info("transcoded big5 file to utf-8", zap.String("path", path))
	return os.WriteFile(path, decoded, 0o644)
}
