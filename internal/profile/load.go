package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/skydev929/us-resume-v2/internal/types"
)

// LoadFile reads a profile record from a JSON file. Used by the one-shot CLI
// path and tests; the server loads profiles from the database instead.
func LoadFile(path string) (*types.ProfileRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	var record types.ProfileRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}

	if record.Name == "" {
		return nil, fmt.Errorf("profile %s is missing a name", path)
	}

	return &record, nil
}

// FileStore serves one profile record from a JSON file under any key. It
// satisfies the server's profile store interface for database-less setups.
type FileStore struct {
	Path string
}

// GetProfile loads the backing file, ignoring the key.
func (s *FileStore) GetProfile(_ context.Context, _ string) (*types.ProfileRecord, error) {
	return LoadFile(s.Path)
}
