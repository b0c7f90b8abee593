package deliver

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoResume means no attachment document could be resolved. it is a
// fatal configuration error for the whole run: no email is ever sent
// without the resume attached.
var ErrNoResume = errors.New("no resume document found")

// ResolveResume locates the attachment: the exact configured path when
// it exists, otherwise the lexically first .pdf in dir.
func ResolveResume(path, dir string) (string, error) {
	if path != "" {
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
	}

	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoResume
		}
		return "", err
	}

	var pdfs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			pdfs = append(pdfs, filepath.Join(dir, entry.Name()))
		}
	}
	if len(pdfs) == 0 {
		return "", ErrNoResume
	}
	sort.Strings(pdfs)
	return pdfs[0], nil
}
