package source

import (
	"encoding/json"
	"time"
)

// DiscoveredFile is a key/value dump found on disk.
type DiscoveredFile struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// ParseResult holds the output of parsing a single dump.
type ParseResult struct {
	File DiscoveredFile
	// Values maps each recognized feature key to its normalized JSON value.
	Values map[string]json.RawMessage
	// Unknown lists keys the dump carried that tend does not track.
	Unknown     []string
	ParseErrors int
	Err         error
}
