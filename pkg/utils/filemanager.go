// =============================================================================
// Sales Totals Calculator - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a run:
//   - Output directory management
//   - Output file naming with placeholders
//   - Writing report files without leaving partial files behind
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager places output files for one run.
type FileManager struct {
	// OutputDir is the directory where output files are placed.
	OutputDir string

	// RunID is substituted for the {run_id} placeholder.
	RunID string

	// Now is the time used for the date placeholders.
	Now time.Time
}

// NewFileManager creates a FileManager for a run.
func NewFileManager(outputDir, runID string) *FileManager {
	return &FileManager{
		OutputDir: outputDir,
		RunID:     runID,
		Now:       time.Now(),
	}
}

// EnsureOutputDir creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureOutputDir() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// Path resolves a file name pattern to a path inside the output directory.
// Absolute patterns are kept as they are.
func (fm *FileManager) Path(pattern string) string {
	name := GenerateOutputFileName(pattern, fm.Now, map[string]string{"run_id": fm.RunID})
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(fm.OutputDir, name)
}

// WriteFile writes data to the path produced by Path(pattern).
//
// RETURNS:
//   - The path written.
//   - An error if the file cannot be written.
func (fm *FileManager) WriteFile(pattern string, data []byte) (string, error) {
	path := fm.Path(pattern)
	if err := WriteFileAtomic(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateOutputFileName expands the placeholders of a file name pattern.
//
// PARAMETERS:
//   - format: The pattern. Placeholders:
//       {uuid}      - A fresh random UUID
//       {timestamp} - YYYYMMDD_HHMMSS
//       {date}      - YYYYMMDD
//       {time}      - HHMMSS
//       {<key>}     - Any key of params
//   - now: The time used for the date placeholders.
//   - params: Extra placeholder values.
//
// EXAMPLE:
//   format: "SalesResults_{date}_{run_id}.txt"
//   output: "SalesResults_20240115_a1b2c3d4-e5f6-7890-abcd-ef1234567890.txt"
func GenerateOutputFileName(format string, now time.Time, params map[string]string) string {
	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	if strings.Contains(format, "{uuid}") {
		replacements["{uuid}"] = uuid.New().String()
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// WriteFileAtomic writes data to a temporary file in the target directory and
// renames it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	return nil
}
