package kb

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultLangs is the ranked transcript language preference.
var DefaultLangs = []string{"es", "ca", "en"}

// DefaultVideos is the curated coaching playlist, in presentation order.
// The order is part of the knowledge contract: assembled sections follow
// this list, not fetch completion order.
var DefaultVideos = []VideoSource{
	{ID: "Nb4KsqpWv24", Label: "Video 1"},
	{ID: "1pP_435kO1s", Label: "Video 2"},
	{ID: "pNcnpTgGMmY", Label: "Video 3"},
	{ID: "u4mvIC71Ny8", Label: "Video 4"},
	{ID: "ED63gIMfbf8", Label: "Video 5"},
	{ID: "Joc50kdFE2c", Label: "Video 6"},
	{ID: "2PFCogJsaYE", Label: "Video 7"},
	{ID: "KhThqqywr7Q", Label: "Video 8"},
	{ID: "IWl3qndvGhM", Label: "Video 9"},
	{ID: "XoUQnqQGayM", Label: "Video 10"},
	{ID: "Ifd5MkFS4sU", Label: "Video 11"},
	{ID: "Oe8CcAhtwvc", Label: "Video 12"},
	{ID: "IbW8IQjPvac", Label: "Video 13"},
	{ID: "LEYR2BEDHFg", Label: "Video 14"},
}

// LoadVideos reads an ordered video list from a JSON config document.
// Configuration is data, never code: the file is a plain array of
// {"id": ..., "label": ...} objects.
func LoadVideos(path string) ([]VideoSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read video config: %w", err)
	}
	var videos []VideoSource
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, fmt.Errorf("parse video config %s: %w", path, err)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("video config %s: empty list", path)
	}
	for i, v := range videos {
		if v.ID == "" {
			return nil, fmt.Errorf("video config %s: entry %d has no id", path, i)
		}
	}
	return videos, nil
}
