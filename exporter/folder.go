package exporter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"sbc/common"
	"sbc/content"
	"sbc/media"
	"sbc/sheet"
	"sbc/sheet/xlsx"
)

var (
	// ErrDestinationExists is returned when export folder exists and
	// overwriting was not requested.
	ErrDestinationExists = errors.New("output folder exists, use overwrite to replace it")
	// ErrBookFolder is returned when export folder looks like a book folder,
	// it is never replaced.
	ErrBookFolder = errors.New("output folder appears to be a book, not a previous export")
)

// SpreadsheetPath returns name of the spreadsheet in export folder, it is
// named after the folder.
func SpreadsheetPath(outDir string) string {
	return filepath.Join(outDir, filepath.Base(outDir)+".xlsx")
}

// ExportToFolder exports book into new folder: previous export there is
// removed, media go to subfolders and spreadsheet named after the folder is
// written. Returns spreadsheet path.
func (e *Exporter) ExportToFolder(ctx context.Context, doc *content.Document, outDir string, overwrite bool) (string, *sheet.Grid, []common.Diagnostic, error) {
	if err := prepareFolder(outDir, overwrite); err != nil {
		return "", nil, nil, err
	}
	e.log.Debug("Exporting to folder", zap.String("folder", outDir), zap.Bool("overwrite", overwrite))
	if err := os.MkdirAll(filepath.Join(outDir, media.ImagesDir), 0755); err != nil {
		return "", nil, nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	grid, diags, err := e.Export(ctx, doc, outDir)
	if err != nil {
		return "", nil, nil, err
	}

	to := SpreadsheetPath(outDir)
	opts := xlsx.Options{SheetName: e.cfg.WorksheetName, RetainMarkup: e.cfg.RetainMarkup}
	if err := xlsx.Write(to, grid, opts, e.log); err != nil {
		return "", nil, nil, fmt.Errorf("unable to write spreadsheet, is it open in another program? %w", err)
	}
	e.log.Info("Spreadsheet written", zap.String("file", to), zap.Int("warnings", len(diags)))
	return to, grid, diags, nil
}

// prepareFolder removes previous export when allowed. Folder with book
// documents is refused always.
func prepareFolder(outDir string, overwrite bool) error {
	fi, err := os.Stat(outDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	case !fi.IsDir():
		return fmt.Errorf("output destination '%s' is not a directory", outDir)
	}

	books, err := filepath.Glob(filepath.Join(outDir, "*.htm"))
	if err != nil {
		return err
	}
	if len(books) > 0 {
		return fmt.Errorf("%w: %s", ErrBookFolder, outDir)
	}
	if !overwrite {
		return fmt.Errorf("%w: %s", ErrDestinationExists, outDir)
	}
	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("unable to remove previous export: %w", err)
	}
	return nil
}
