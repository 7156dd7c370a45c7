package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveAsset persists the knowledge asset as an inert JSON document.
func SaveAsset(dir string, asset Asset) error {
	data, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal asset: %w", err)
	}
	path := filepath.Join(dir, AssetFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadAsset reads a previously built knowledge asset. A missing file is
// not an error — the coach runs with no knowledge base rather than
// failing to start. A malformed file is an error: a half-written asset
// must never be served silently.
func LoadAsset(dir string) (Asset, error) {
	path := filepath.Join(dir, AssetFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Asset{}, nil
		}
		return Asset{}, fmt.Errorf("read %s: %w", path, err)
	}
	var asset Asset
	if err := json.Unmarshal(data, &asset); err != nil {
		return Asset{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return asset, nil
}
