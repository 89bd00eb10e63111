// Package discovery provides file discovery for video analysis.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shotseek/shotseek/internal/errs"
	"github.com/shotseek/shotseek/internal/util"
)

// Result contains the results of file discovery with metadata.
type Result struct {
	Files        []string
	SkippedCount int
}

// FindVideoFiles finds video files in the given directory.
// Returns files sorted alphabetically by filename.
func FindVideoFiles(inputDir string) ([]string, error) {
	result, err := Discover(inputDir)
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}

// Discover finds video files in the given directory, also reporting how
// many non-video entries were skipped.
func Discover(inputDir string) (*Result, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, errs.NewIOError("directory does not exist: "+inputDir, err)
	}
	if !info.IsDir() {
		return nil, errs.NewConfigErrorf("%s is not a directory", inputDir)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, errs.NewIOError("cannot read directory "+inputDir, err)
	}

	result := &Result{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		// Skip hidden files
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(inputDir, name)
		if util.IsVideoFile(fullPath) {
			result.Files = append(result.Files, fullPath)
		} else {
			result.SkippedCount++
		}
	}

	if len(result.Files) == 0 {
		return nil, errs.NewNoFilesFoundError(inputDir)
	}

	// Sort alphabetically
	sort.Slice(result.Files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(result.Files[i])) < strings.ToLower(filepath.Base(result.Files[j]))
	})

	return result, nil
}
