package file

import (
	"os"
	"time"
)

// Fingerprint identifies a version of a file on disk.
type Fingerprint struct {
	ModTime time.Time
	Size    int64
}

func Stat(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, err
	}
	return Fingerprint{ModTime: info.ModTime(), Size: info.Size()}, nil
}

// ChangedSince reports whether path differs from prev in size or modification time.
func ChangedSince(path string, prev Fingerprint) (bool, Fingerprint, error) {
	cur, err := Stat(path)
	if err != nil {
		return false, Fingerprint{}, err
	}
	return cur.Size != prev.Size || !cur.ModTime.Equal(prev.ModTime), cur, nil
}
