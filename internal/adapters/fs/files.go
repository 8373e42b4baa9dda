package fs

import (
	"os"

	"github.com/dustin/go-humanize"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// AddNodeShebang prepends the node shebang line to every file.
func AddNodeShebang(files ...string) error {
	if len(files) == 0 {
		return domain.ErrNothingToShebang
	}
	for _, file := range files {
		content, err := os.ReadFile(file) //nolint:gosec // paths come from package.json
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read file to add shebang to"), "path", file)
		}
		info, err := os.Stat(file)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to stat file"), "path", file)
		}
		content = append([]byte(domain.NodeShebang), content...)
		if err := os.WriteFile(file, content, info.Mode().Perm()); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write file with shebang"), "path", file)
		}
	}
	return nil
}

// FileSize returns the size of path in human units, like "1.2 kB".
func FileSize(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	return FormatSize(info.Size()), nil
}

// FormatSize formats a byte count in human units.
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
