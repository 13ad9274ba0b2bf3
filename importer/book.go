package importer

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"sbc/common"
	"sbc/content"
	"sbc/media"
	"sbc/sheet"
	"sbc/sheet/xlsx"
)

// BackupPath returns name of the copy book document is saved to before it
// is replaced.
func BackupPath(bookPath string) string {
	return bookPath + ".bak"
}

// ImportFile reads spreadsheet, imports it into the book document and
// writes the document back, keeping previous version when configured.
// Media paths of the spreadsheet are relative to its folder.
func (im *Importer) ImportFile(ctx context.Context, sheetPath, bookPath string) (*sheet.Grid, *content.Document, []common.Diagnostic, error) {
	grid, err := xlsx.Read(sheetPath, im.log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("unable to read spreadsheet: %w", err)
	}
	doc, err := content.Load(bookPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("unable to load book: %w", err)
	}

	diags, err := im.Import(ctx, grid, doc, filepath.Dir(sheetPath))
	if err != nil {
		return nil, nil, nil, err
	}

	if im.cfg.KeepBackup {
		if err := media.CopyFile(bookPath, BackupPath(bookPath)); err != nil {
			return nil, nil, nil, fmt.Errorf("unable to keep backup of the book: %w", err)
		}
		im.log.Debug("Backup written", zap.String("file", BackupPath(bookPath)))
	}
	if err := doc.Save(bookPath); err != nil {
		return nil, nil, nil, fmt.Errorf("unable to save book: %w", err)
	}
	im.log.Info("Book updated", zap.String("file", bookPath), zap.Int("problems", len(diags)))
	return grid, doc, diags, nil
}
