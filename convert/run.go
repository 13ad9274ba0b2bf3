// Package convert implements program commands: export of a book into
// spreadsheet folder and import of a spreadsheet back into the book.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"sbc/audio"
	"sbc/common"
	"sbc/content"
	"sbc/content/text"
	"sbc/exporter"
	"sbc/importer"
	"sbc/state"
	"sbc/templates"
)

// Export is action of export command.
func Export(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no book folder has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite, env.RetainMarkup = cmd.Bool("overwrite"), cmd.Bool("retain-markup")

	log.Info("Export starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Export completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	_, err = exportBook(ctx, src, dst, log)
	return err
}

// exportBook exports book found at src into its own folder under dst and
// returns spreadsheet path.
func exportBook(ctx context.Context, src, dst string, log *zap.Logger) (to string, rerr error) {
	env := state.EnvFromContext(ctx)

	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Export ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("export panic: %v", r)
		}
	}(time.Now())

	bookPath, err := findBook(src)
	if err != nil {
		return "", err
	}
	doc, err := content.Load(bookPath)
	if err != nil {
		return "", fmt.Errorf("unable to load book (%s): %w", bookPath, err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("book-"+filepath.Base(bookPath)+".txt", []byte(doc.Dump()))
	}

	outDir := buildOutputDir(doc, dst, env)

	cfg := env.Cfg.Export
	cfg.RetainMarkup = env.KeepMarkup()
	to, grid, diags, err := exporter.New(&cfg, log).ExportToFolder(ctx, doc, outDir, env.OverwriteAllowed())
	if err != nil {
		return "", err
	}

	if env.Rpt != nil {
		env.Rpt.StoreData("grid-"+filepath.Base(to)+".txt", []byte(grid.Dump()))
		env.Rpt.Store("result-"+filepath.Base(to), to)
		env.Rpt.StoreLines("export-diagnostics.txt", diagnosticLines(diags))
	}
	log.Info("Book exported", zap.String("book", bookPath), zap.String("to", to), zap.Int("warnings", len(diags)))
	return to, nil
}

// Import is action of import command.
func Import(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	if cmd.Args().Len() < 2 {
		return errors.New("both spreadsheet and book folder must be specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	sheetPath, err := filepath.Abs(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	src, err := filepath.Abs(cmd.Args().Get(1))
	if err != nil {
		return err
	}

	env.RemoveOtherLanguages = cmd.Bool("remove-other-languages")
	if cmd.Bool("keep-backup") {
		env.Cfg.Import.KeepBackup = true
	}

	log.Info("Import starting", zap.String("spreadsheet", sheetPath), zap.String("book", src))
	defer func(start time.Time) {
		log.Info("Import completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	_, err = importBook(ctx, sheetPath, src, log)
	return err
}

// importBook imports spreadsheet into the book found at src and returns
// diagnostics. Book is saved only when import succeeds.
func importBook(ctx context.Context, sheetPath, src string, log *zap.Logger) (diags []common.Diagnostic, rerr error) {
	env := state.EnvFromContext(ctx)

	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Import ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("import panic: %v", r)
		}
	}(time.Now())

	bookPath, err := findBook(src)
	if err != nil {
		return nil, err
	}
	if err := env.Rpt.StoreCopy("source-"+filepath.Base(bookPath), bookPath); err != nil {
		log.Warn("Unable to keep book copy for the report", zap.Error(err))
	}

	im, err := newImporter(env, log)
	if err != nil {
		return nil, err
	}
	grid, doc, diags, err := im.ImportFile(ctx, sheetPath, bookPath)
	if err != nil {
		return nil, err
	}

	if env.Rpt != nil {
		env.Rpt.StoreData("grid-"+filepath.Base(sheetPath)+".txt", []byte(grid.Dump()))
		env.Rpt.StoreData("book-"+filepath.Base(bookPath)+".txt", []byte(doc.Dump()))
		env.Rpt.Store("result-"+filepath.Base(bookPath), bookPath)
		env.Rpt.StoreLines("import-diagnostics.txt", diagnosticLines(diags))
	}
	errs := 0
	for _, d := range diags {
		if d.Severity == common.SeverityError {
			errs++
		}
	}
	log.Info("Book updated", zap.String("book", bookPath), zap.Int("warnings", len(diags)-errs), zap.Int("errors", errs))
	return diags, nil
}

// newImporter builds importer and its shared services from configuration.
func newImporter(env *state.LocalEnv, log *zap.Logger) (*importer.Importer, error) {
	lib, err := templates.NewLibrary(env.Cfg.Import.PageTemplatesPath, log)
	if err != nil {
		return nil, fmt.Errorf("unable to load page templates: %w", err)
	}
	prober := audio.NewProber(env.Cfg.Audio.Probe, env.Cfg.Audio.FFProbePath, env.Cfg.Audio.CacheTTL, log)
	split := text.NewSplitters(env.Cfg.Import.DefaultLanguage, log)

	cfg := env.Cfg.Import
	cfg.RemoveOtherLanguages = env.DropOtherLanguages()
	return importer.New(&cfg, lib, prober, split, log), nil
}

func diagnosticLines(diags []common.Diagnostic) []string {
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		where := ""
		if d.Page != "" {
			where += " page " + d.Page
		}
		if d.Row > 0 {
			where += fmt.Sprintf(" row %d", d.Row)
		}
		lines = append(lines, fmt.Sprintf("%s [%s]%s: %s", d.Severity, d.Kind, where, d.Message))
	}
	return lines
}
