package export

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// CompressFile gzips path into path + ".gz" and returns the new path. This is
// a decoupled post-processing filter over an already-written file, not part
// of the unifier's contract. With removeOriginal the uncompressed file is
// deleted after a successful write.
func CompressFile(path string, removeOriginal bool) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	gzPath := path + ".gz"
	out, err := os.Create(gzPath)
	if err != nil {
		return "", err
	}

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("failed to compress %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}

	if removeOriginal {
		if err := os.Remove(path); err != nil {
			return gzPath, fmt.Errorf("compressed but failed to remove %s: %w", path, err)
		}
	}
	return gzPath, nil
}
