package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nibaldox/dureza-relativa/internal/dataprocessing"
)

// FileValidator checks the CLI's input file and output directory before any
// parsing starts, so path mistakes surface as one clear message
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger.With(slog.String("component", "file_validator"))}
}

// ValidateInputFile checks that path is a non-empty CSV or XLSX file and
// returns the format its extension selects
func (v *FileValidator) ValidateInputFile(path string) (dataprocessing.Format, error) {
	// Excel lock files share the workbook's extension
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return "", fmt.Errorf("file %s is a temporary Excel file", path)
	}

	format, err := dataprocessing.DetectFormat(path)
	if err != nil {
		v.logger.Error("Input file has an unsupported extension",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return "", fmt.Errorf("file %s: %w", path, err)
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("file %s does not exist", path)
	case err != nil:
		return "", fmt.Errorf("failed to stat file %s: %w", path, err)
	case info.IsDir():
		return "", fmt.Errorf("%s is a directory, not a file", path)
	case info.Size() == 0:
		return "", fmt.Errorf("file %s is empty", path)
	}

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.String("format", string(format)),
		slog.Int64("size", info.Size()))
	return format, nil
}

// ValidateOutputDirectory creates dir when missing and checks it accepts new files
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	scratch, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	scratch.Close()
	os.Remove(scratch.Name())
	return nil
}
