package watch

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sync"
)

// contentHashes remembers the SHA-256 of every file seen by the watcher so
// that saves which leave a file's bytes unchanged do not trigger a rebuild.
type contentHashes struct {
	mu   sync.Mutex
	sums map[string]string
}

func newContentHashes() *contentHashes {
	return &contentHashes{sums: make(map[string]string)}
}

// changed returns the files whose content differs from the last call. A
// file that cannot be read, such as a deleted one, counts as changed.
func (h *contentHashes) changed(files []string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, 0, len(files))
	for _, file := range files {
		sum, err := hashFile(file)
		if err != nil {
			delete(h.sums, file)
			out = append(out, file)
			continue
		}
		if prev, ok := h.sums[file]; ok && prev == sum {
			continue
		}
		h.sums[file] = sum
		out = append(out, file)
	}
	return out
}

// hashFile computes a SHA-256 hash of the file contents
func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
