package workenv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const markerName = ".source.json"

// ErrForeignDirectory means a backup directory belongs to another save.
var ErrForeignDirectory = errors.New("❌ backup directory belongs to another save")

// SourceMarker records which save file a backup directory serves
type SourceMarker struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// ClaimDir marks dir as holding backups of source. A directory already
// claimed by the same source is accepted; one claimed by another source
// returns ErrForeignDirectory.
func ClaimDir(dir, source string) error {
	abs, err := filepath.Abs(source)
	if err != nil {
		abs = source
	}

	markerPath := filepath.Join(dir, markerName)
	data, err := os.ReadFile(markerPath)
	switch {
	case err == nil:
		var marker SourceMarker
		if err := json.Unmarshal(data, &marker); err != nil {
			return fmt.Errorf("parsing %s: %w", markerPath, err)
		}
		if marker.Source != abs {
			return fmt.Errorf("%w: %s holds %s", ErrForeignDirectory, dir, marker.Source)
		}
		return nil
	case !os.IsNotExist(err):
		return err
	}

	marker := SourceMarker{Timestamp: time.Now().UTC(), Source: abs}
	data, err = json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(markerPath, data, 0644)
}

// ClaimedSource returns the save path recorded in dir, or "" when the
// directory is unclaimed.
func ClaimedSource(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, markerName))
	if err != nil {
		return ""
	}
	var marker SourceMarker
	if err := json.Unmarshal(data, &marker); err != nil {
		return ""
	}
	return marker.Source
}
