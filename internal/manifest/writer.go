package manifest

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// Writer edits a package.json in place, keeping its formatting, and writes
// it back with a backup to fall back on.
type Writer struct {
	manifest   *Manifest
	data       []byte
	backupMade bool
	backupPath string
}

// NewWriter creates a writer over the manifest's current content
func NewWriter(m *Manifest) *Writer {
	return &Writer{
		manifest: m,
		data:     bytes.Clone(m.data),
	}
}

// Backup creates a timestamped backup of the manifest
func (w *Writer) Backup() error {
	if w.backupMade {
		return nil
	}

	timestamp := time.Now().Format("20060102_150405")
	backupPath := fmt.Sprintf("%s.backup.%s", w.manifest.Path, timestamp)

	if err := os.WriteFile(backupPath, w.manifest.data, 0o644); err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}

	w.backupMade = true
	w.backupPath = backupPath
	return nil
}

// RestoreBackup restores the backup file
func (w *Writer) RestoreBackup() error {
	if !w.backupMade {
		return fmt.Errorf("no backup to restore")
	}

	data, err := os.ReadFile(w.backupPath)
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}

	if err := os.WriteFile(w.manifest.Path, data, 0o644); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}

	return nil
}

// CleanupBackup removes the backup file
func (w *Writer) CleanupBackup() error {
	if !w.backupMade {
		return nil
	}

	if err := os.Remove(w.backupPath); err != nil {
		return fmt.Errorf("removing backup: %w", err)
	}

	w.backupMade = false
	w.backupPath = ""
	return nil
}

// BackupPath returns the path to the backup file (if created)
func (w *Writer) BackupPath() string {
	return w.backupPath
}

// SetSpecifier rewrites the `"name": "from"` entry of every dependency
// section to `"name": "to"` and returns how many entries changed. Entries
// are located on the comment-free form of the document, which keeps the
// byte offsets of the original, and the new value is spliced into the
// original so comments and layout survive.
func (w *Writer) SetSpecifier(name, from, to string) (int, error) {
	clean := jsonc.ToJSON(w.data)

	var hits []gjson.Result
	for _, kind := range Kinds {
		res := gjson.GetBytes(clean, string(kind)+"."+gjson.Escape(name))
		if res.Type == gjson.String && res.Str == from && res.Index > 0 {
			hits = append(hits, res)
		}
	}
	if len(hits) == 0 {
		return 0, fmt.Errorf("%s: no %q entry with specifier %q", w.manifest.Path, name, from)
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Index > hits[j].Index })
	value := []byte(strconv.Quote(to))
	for _, h := range hits {
		end := h.Index + len(h.Raw)
		var buf bytes.Buffer
		buf.Grow(len(w.data) - len(h.Raw) + len(value))
		buf.Write(w.data[:h.Index])
		buf.Write(value)
		buf.Write(w.data[end:])
		w.data = buf.Bytes()
	}
	return len(hits), nil
}

// Changed reports whether any edit has been made
func (w *Writer) Changed() bool {
	return !bytes.Equal(w.data, w.manifest.data)
}

// Bytes returns the edited content
func (w *Writer) Bytes() []byte {
	return w.data
}

// Write writes the edited content to the manifest
func (w *Writer) Write() error {
	if err := os.WriteFile(w.manifest.Path, w.data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", w.manifest.Path, err)
	}
	return nil
}

// SafeWrite creates a backup, writes the file, and validates it
func (w *Writer) SafeWrite() error {
	if err := w.Backup(); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	if err := w.Write(); err != nil {
		if restoreErr := w.RestoreBackup(); restoreErr != nil {
			return fmt.Errorf("write failed and restore failed: %w (original error: %v)", restoreErr, err)
		}
		return fmt.Errorf("write failed (backup restored): %w", err)
	}

	if _, err := Parse(w.manifest.Path); err != nil {
		if restoreErr := w.RestoreBackup(); restoreErr != nil {
			return fmt.Errorf("validation failed and restore failed: %w (original error: %v)", restoreErr, err)
		}
		return fmt.Errorf("validation failed (backup restored): %w", err)
	}

	return nil
}
