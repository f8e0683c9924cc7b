package storage

import (
	"fmt"
	"os"
)

// DatabaseFiles returns the files a SQLite database in WAL mode occupies.
func DatabaseFiles(dbPath string) []string {
	if dbPath == "" {
		return nil
	}
	return []string{dbPath, dbPath + "-wal", dbPath + "-shm"}
}

// FilesSize returns the total size in bytes of the given regular files.
// Empty and missing paths contribute 0.
func FilesSize(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if info.IsDir() {
			return 0, fmt.Errorf("%s is a directory", p)
		}
		total += info.Size()
	}
	return total, nil
}
