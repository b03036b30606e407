package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/tend/internal/model"
)

// backupVersion is bumped when the backup layout changes incompatibly.
const backupVersion = 1

// Document is the on-disk backup layout.
type Document struct {
	Version    int            `yaml:"version"`
	ExportedAt time.Time      `yaml:"exported_at"`
	Data       model.Snapshot `yaml:"data"`
}

// Backup writes the full snapshot as YAML.
func Backup(w io.Writer, snap model.Snapshot, at time.Time) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Document{Version: backupVersion, ExportedAt: at, Data: snap}); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return enc.Close()
}

// Restore reads a backup written by Backup.
func Restore(r io.Reader) (model.Snapshot, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return model.Snapshot{}, errors.New("backup is empty")
		}
		return model.Snapshot{}, fmt.Errorf("decoding backup: %w", err)
	}
	if doc.Version != backupVersion {
		return model.Snapshot{}, fmt.Errorf("unsupported backup version %d", doc.Version)
	}
	return doc.Data, nil
}
