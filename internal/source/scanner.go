package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir lists the *.json dumps directly inside dir, oldest first.
// A missing directory yields no files.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []DiscoveredFile
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // vanished between ReadDir and Info
		}
		files = append(files, DiscoveredFile{
			Path:    filepath.Join(dir, e.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.Before(files[j].ModTime)
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// Newest returns the most recently modified dump.
func Newest(files []DiscoveredFile) (DiscoveredFile, bool) {
	if len(files) == 0 {
		return DiscoveredFile{}, false
	}
	return files[len(files)-1], true
}

// Describe resolves path to the files to import: a single dump, or every
// dump in a directory.
func Describe(path string) ([]DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return ScanDir(path)
	}
	return []DiscoveredFile{{Path: path, ModTime: info.ModTime(), Size: info.Size()}}, nil
}
