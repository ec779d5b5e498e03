package excel

import (
	"os"
	"path/filepath"
	"strings"
)

// StudyFileConfig configures the workbook ingestion adapter
type StudyFileConfig struct {
	FilePath string
	Enabled  bool
}

// NewStudyFileConfig creates a config for the given path; an empty path
// disables the adapter.
func NewStudyFileConfig(filePath string) StudyFileConfig {
	return StudyFileConfig{
		FilePath: filePath,
		Enabled:  filePath != "",
	}
}

// IsCSV reports whether the configured file is a CSV export. CSV carries a
// single card-sort table; the other method sheets need a workbook.
func (c StudyFileConfig) IsCSV() bool {
	return strings.ToLower(filepath.Ext(c.FilePath)) == ".csv"
}

// Exists reports whether the configured file is present
func (c StudyFileConfig) Exists() bool {
	if !c.Enabled {
		return false
	}
	_, err := os.Stat(c.FilePath)
	return err == nil
}
