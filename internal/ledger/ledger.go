package ledger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"jobreach/lib/textutil"
)

// Ledger is the durable record of addresses already contacted, one per
// line, append-only. the full file is read at startup into a set; the
// set plus the file are appended to strictly after each confirmed send,
// which is what makes delivery at-most-once across runs.
type Ledger struct {
	path string
	file *os.File
	seen map[string]bool
}

// Open reads the ledger at path (creating it when missing) and keeps it
// open for appends. lines starting with '#' and blank lines are
// ignored, so the file can carry hand-written notes.
func Open(path string) (*Ledger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	seen := map[string]bool{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seen[textutil.NormalizeEmail(line)] = true
	}
	if err := scanner.Err(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	return &Ledger{
		path: path,
		file: file,
		seen: seen,
	}, nil
}

func (l *Ledger) Contains(email string) bool {
	return l.seen[textutil.NormalizeEmail(email)]
}

func (l *Ledger) Len() int {
	return len(l.seen)
}

// Append records an address as contacted, syncing the file before
// returning so a crash right after a send cannot lose the record.
func (l *Ledger) Append(email string) error {
	normalized := textutil.NormalizeEmail(email)
	if l.seen[normalized] {
		return nil
	}
	_, err := fmt.Fprintln(l.file, normalized)
	if err != nil {
		return fmt.Errorf("failed to append to ledger: %w", err)
	}
	err = l.file.Sync()
	if err != nil {
		return fmt.Errorf("failed to sync ledger: %w", err)
	}
	l.seen[normalized] = true
	return nil
}

func (l *Ledger) Close() error {
	return l.file.Close()
}
