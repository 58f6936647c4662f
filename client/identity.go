package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LoadOrCreateID returns the opaque identifier persisted at path, creating
// and storing a fresh one on first use. The id is generated exactly once
// per installation and reused across runs, mirroring the browser's
// localStorage identity.
func LoadOrCreateID(path, prefix string) (string, error) {
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	id := fmt.Sprintf("%s_%s", prefix, uuid.NewString())

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("error creating identity directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("error persisting identity: %v", err)
	}
	return id, nil
}
