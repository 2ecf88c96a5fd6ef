package manifest

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/harrison/gcovfind/internal/gcoverr"
)

// FileDigest returns the hex-encoded BLAKE3-256 digest of the file at path.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", gcoverr.NewFilesystemError(path, "cannot open artifact", err)
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", gcoverr.NewFilesystemError(path, "cannot read artifact", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// AddDigests hashes every listed artifact so the report engine can detect
// counters rewritten after discovery.
func (m *Manifest) AddDigests() error {
	digests := make(map[string]string, len(m.sources))
	for i, src := range m.sources {
		sum, err := FileDigest(src)
		if err != nil {
			return fmt.Errorf("failed to digest %s: %w", m.Artifacts[i].Path, err)
		}
		digests[m.Artifacts[i].Path] = sum
	}
	m.Digests = digests
	return nil
}
