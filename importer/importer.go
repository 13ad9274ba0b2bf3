// Package importer applies spreadsheet grid to a book document: metadata
// rows update the data div, content rows are matched to page slots in
// order, new pages are made from templates when existing ones cannot hold
// the rows, and narration is attached to imported text.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sbc/audio"
	"sbc/common"
	"sbc/config"
	"sbc/content"
	"sbc/content/text"
	"sbc/media"
	"sbc/sheet"
	"sbc/templates"
)

// ErrNoContent is returned when grid has no row importer recognizes.
var ErrNoContent = errors.New("spreadsheet has no content rows")

// headerRows is number of rows before first content row in the file.
const headerRows = 2

// Importer updates a single book from a grid. It is not safe for concurrent
// use, run one import at a time.
type Importer struct {
	cfg    *config.ImportConfig
	lib    *templates.Library
	prober audio.Prober
	split  *text.Splitters
	log    *zap.Logger

	ctx     context.Context
	grid    *sheet.Grid
	doc     *content.Document
	ssDir   string
	bookDir string
	langs   []string
	diags   *common.Diagnostics
	copier  *media.Copier

	pages     *pageTracker
	cur       cursor
	installed map[string]bool
	audioIDs  map[string]string
	// ids given to narrated elements by this import
	narrated  map[string]bool
	coverSeen bool

	// image container description rows go to
	lastImage *content.Slot
	descUsed  int
}

// New creates importer. Template library, audio prober and sentence
// splitters are shared between runs.
func New(cfg *config.ImportConfig, lib *templates.Library, prober audio.Prober, split *text.Splitters, log *zap.Logger) *Importer {
	return &Importer{
		cfg:    cfg,
		lib:    lib,
		prober: prober,
		split:  split,
		log:    log.Named("import"),
	}
}

// Import applies grid to the document in place. Relative media paths of the
// grid are resolved against ssDir, media are copied into the folder of the
// document. Data problems are returned as diagnostics, error means import
// could not be done or was cancelled, document is valid either way.
func (im *Importer) Import(ctx context.Context, grid *sheet.Grid, doc *content.Document, ssDir string) ([]common.Diagnostic, error) {
	if grid == nil || doc == nil {
		return nil, errors.New("import requires both spreadsheet and book")
	}
	if _, err := grid.RequiredColumnFor(sheet.RowTypeTag); err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(grid.Rows(), func(r *sheet.Row) bool { return r.Type() != sheet.RowUnknown }) {
		return nil, ErrNoContent
	}

	im.reset(ctx, grid, doc, ssDir)
	for i, row := range grid.Rows() {
		if err := ctx.Err(); err != nil {
			return nil, multierr.Append(err, im.copier.Wait())
		}
		r := i + headerRows + 1
		var err error
		switch row.Type() {
		case sheet.RowMetadata:
			_, key := sheet.ClassifyKey(row.Key())
			err = im.importMetadata(row, r, key)
		case sheet.RowPageContent:
			err = im.importContent(row, r)
		case sheet.RowImageDescription:
			err = im.importDescription(row, r)
		default:
			if key := row.Key(); key != "" {
				im.log.Debug("Row skipped", zap.Int("row", r), zap.String("key", key))
			}
		}
		if err != nil {
			return nil, multierr.Append(err, im.copier.Wait())
		}
	}
	im.finish()

	if err := im.copier.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		for _, ce := range multierr.Errors(err) {
			im.diags.Warn(common.DiagnosticKindMissingMediaFile, "", 0, fmt.Sprintf("Trouble copying media into the book folder: %v", ce))
		}
	}

	im.log.Debug("Book imported",
		zap.Int("rows", len(grid.Rows())),
		zap.Int("inserted", im.pages.inserted),
		zap.Strings("languages", im.langs),
		zap.Int("diagnostics", len(im.diags.List())))
	return im.diags.List(), nil
}

func (im *Importer) reset(ctx context.Context, grid *sheet.Grid, doc *content.Document, ssDir string) {
	im.ctx = ctx
	im.grid = grid
	im.doc = doc
	im.ssDir = ssDir
	im.bookDir = doc.Dir()
	im.langs = slices.DeleteFunc(grid.Languages(), func(l string) bool { return l == sheet.WildcardLanguage })
	im.diags = common.NewDiagnostics(im.log)
	im.copier = media.NewCopier(ctx, im.cfg.CopyWorkers, im.log)
	im.pages = newPageTracker(doc)
	im.cur = cursor{}
	im.installed = make(map[string]bool)
	im.audioIDs = make(map[string]string)
	im.narrated = make(map[string]bool)
	im.coverSeen = false
	im.lastImage, im.descUsed = nil, 0
}

// finish empties unused quiz answers of imported pages, renumbers pages
// and reports pages input never reached.
func (im *Importer) finish() {
	for _, p := range im.pages.all() {
		if p.touched {
			clearUnusedAnswers(p)
		}
	}
	im.doc.Renumber()

	last := -1
	for i, p := range im.pages.existing {
		if p.touched {
			last = i
		}
	}
	for i, p := range im.pages.existing {
		if p.touched || p.bypassed || p.Empty() {
			continue
		}
		if i > last {
			im.diags.Warn(common.DiagnosticKindPageNotUpdated, p.number(), 0,
				fmt.Sprintf("No input found for pages from %s onwards.", p.number()))
			break
		}
		im.diags.Warn(common.DiagnosticKindPageNotUpdated, p.number(), 0,
			fmt.Sprintf("Page %s was not updated because the input has no rows for it.", p.number()))
	}

	if !im.coverSeen {
		im.diags.Warn(common.DiagnosticKindMissingMediaFile, "", 0, "No cover image found")
	}
}

// isBlank reports whether cell asks to empty the text.
func isBlank(cell string) bool {
	return strings.TrimSpace(plainText(cell)) == sheet.BlankMarker
}

// clearUnusedAnswers empties quiz answers no row was imported into.
func clearUnusedAnswers(p *pageState) {
	for i, s := range p.Texts {
		if i < p.used[common.SlotKindText] || s.Type != content.SlotQuizAnswer {
			continue
		}
		for _, ed := range content.Editables(s.El) {
			if content.Lang(ed) != content.TemplateLang {
				ed.Parent().RemoveChild(ed)
			}
		}
		if parent := s.El.Parent(); parent != nil {
			content.RemoveClass(parent, content.ClassCorrectAnswer)
			content.AddClass(parent, content.ClassEmpty)
		}
	}
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// removeAll detaches elements from their parents.
func removeAll(els []*etree.Element) {
	for _, el := range els {
		if parent := el.Parent(); parent != nil {
			parent.RemoveChild(el)
		}
	}
}
