// Package exporter turns book document into spreadsheet grid: book metadata
// first, then one row per content element of every page.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sbc/common"
	"sbc/config"
	"sbc/content"
	"sbc/markup"
	"sbc/media"
	"sbc/sheet"
)

// correctAnswerAttribute is attribute data of quiz answers marked correct.
const correctAnswerAttribute = "../class=" + content.ClassCorrectAnswer

// Exporter builds spreadsheet grid of a single book.
type Exporter struct {
	cfg *config.ExportConfig
	log *zap.Logger

	grid    *sheet.Grid
	diags   *common.Diagnostics
	bookDir string
	// outDir is empty when media is not copied
	outDir string
	copier *media.Copier
}

func New(cfg *config.ExportConfig, log *zap.Logger) *Exporter {
	return &Exporter{cfg: cfg, log: log.Named("export")}
}

// Export builds grid of the book. When outDir is not empty every media file
// rows refer to is copied under it. Problems with the data are returned as
// diagnostics, error means export could not be done.
func (e *Exporter) Export(ctx context.Context, doc *content.Document, outDir string) (*sheet.Grid, []common.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	e.grid = sheet.New()
	e.diags = common.NewDiagnostics(e.log)
	e.bookDir = doc.Dir()
	e.outDir = outDir
	e.copier = nil
	if outDir != "" {
		e.copier = media.NewCopier(ctx, e.cfg.CopyWorkers, e.log)
	}

	entries := e.metadataEntries(doc)
	// visible metadata on top, hidden entries go after page content
	for _, en := range entries {
		if !en.hidden() {
			e.addMetadata(en)
		}
	}

	pageIndex := 0
	for _, el := range doc.Pages() {
		if content.IsXMatter(el) {
			continue
		}
		if err := ctx.Err(); err != nil {
			e.abandonCopies()
			return nil, nil, err
		}
		e.addPage(content.Classify(el), pageIndex%2 == 1)
		pageIndex++
	}

	for _, en := range entries {
		if en.hidden() {
			e.addMetadata(en)
		}
	}

	if err := e.waitCopies(); err != nil {
		return nil, nil, err
	}

	e.log.Debug("Book exported",
		zap.Int("pages", pageIndex),
		zap.Int("rows", len(e.grid.Rows())),
		zap.Strings("languages", e.grid.Languages()))
	return e.grid, e.diags.List(), nil
}

func (e *Exporter) abandonCopies() {
	if e.copier != nil {
		_ = e.copier.Wait()
	}
}

// waitCopies turns copy failures into warnings, only cancellation stops
// export.
func (e *Exporter) waitCopies() error {
	if e.copier == nil {
		return nil
	}
	err := e.copier.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	for _, ce := range multierr.Errors(err) {
		e.diags.Warn(common.DiagnosticKindExportWarning, "", 0,
			fmt.Sprintf("Export warning: trouble copying media to the export folder: %v", ce))
	}
	return nil
}

// addPage writes rows of one page: images with their descriptions, text
// blocks in tab order, videos and widgets. Page type goes to the first row
// only so rows which follow may land on the same page on import.
func (e *Exporter) addPage(p *content.Page, shaded bool) {
	index := 0
	pageType := p.Label
	newRow := func() *sheet.Row {
		index++
		r := e.grid.AddRow(sheet.PageContentKey)
		r.Set(sheet.PageNumberTag, p.Number)
		r.Set(sheet.TextIndexTag, strconv.Itoa(index))
		if pageType != "" {
			r.Set(sheet.PageTypeTag, pageType)
			pageType = ""
		}
		r.Shaded = shaded
		return r
	}

	for _, s := range p.Images {
		e.writeImage(s.El, newRow(), p.Number)
		for _, desc := range s.Descriptions {
			r := e.grid.AddRow(sheet.ImageDescriptionKey)
			r.Set(sheet.PageNumberTag, p.Number)
			r.Shaded = shaded
			e.writeGroup(desc, r)
		}
	}
	for _, s := range p.Texts {
		e.writeGroup(s.El, newRow())
	}
	for _, s := range p.Videos {
		e.writeVideo(s.El, newRow(), p.Number)
	}
	for _, s := range p.Widgets {
		e.writeWidget(s.El, newRow(), p.Number)
	}
	e.log.Debug("Page exported", zap.String("page", p.Number), zap.String("type", p.Label), zap.Int("rows", index))
}

// writeGroup puts every language of translation group into its column.
func (e *Exporter) writeGroup(group *etree.Element, row *sheet.Row) {
	for _, ed := range content.Editables(group) {
		lang := content.Lang(ed)
		if lang == "" || lang == content.TemplateLang {
			continue
		}
		row.Set(sheet.LangTag(lang), editableMarkup(ed))
		e.exportAudio(ed, row)
	}
	if parent := group.Parent(); parent != nil && content.HasClass(parent, content.ClassCorrectAnswer) {
		row.Set(sheet.AttributeDataTag, correctAnswerAttribute)
	}
}

// editableMarkup returns editable content as stored in language cell:
// inner markup with phrase markers typed back, or blank marker when there
// is no visible text.
func editableMarkup(ed *etree.Element) string {
	if strings.TrimSpace(content.TextContent(ed)) == "" {
		return sheet.BlankMarker
	}
	return strings.ReplaceAll(content.InnerXML(ed), markup.SplitMarkerSpan, "|")
}

func (e *Exporter) writeImage(container *etree.Element, row *sheet.Row, page string) {
	src := content.ImageSource(container)
	if src == "" || media.IsPlaceholder(src) {
		row.Set(sheet.ImageSourceTag, sheet.BlankMarker)
		return
	}
	e.exportImage(src, row, page)
}

// exportImage records image of the book folder in the row, copies it to
// the export and puts thumbnail status next to it.
func (e *Exporter) exportImage(src string, row *sheet.Row, page string) {
	name := path.Base(filepath.ToSlash(src))
	row.Set(sheet.ImageSourceTag, path.Join(media.ImagesDir, name))

	full := filepath.Join(e.bookDir, filepath.FromSlash(src))
	status := media.ImageStatus(full)
	if status != "" {
		row.Set(sheet.ImageThumbnailTag, status)
	}
	if status == sheet.StatusMissing {
		e.diags.Warn(common.DiagnosticKindMissingMediaFile, page, 0,
			fmt.Sprintf("Export warning: did not find the image %s. It will be missing from the export folder.", full))
		return
	}
	if e.copier != nil {
		e.copier.File(full, filepath.Join(e.outDir, media.ImagesDir, name))
	}
}

func (e *Exporter) writeVideo(container *etree.Element, row *sheet.Row, page string) {
	src := content.VideoSource(container)
	row.Set(sheet.VideoSourceTag, src)
	if src == "" || e.copier == nil {
		return
	}
	full := filepath.Join(e.bookDir, filepath.FromSlash(src))
	if !exists(full) {
		e.diags.Warn(common.DiagnosticKindMissingMediaFile, page, 0,
			fmt.Sprintf("Export warning: did not find the video %s. It will be missing from the export folder.", full))
		return
	}
	e.copier.File(full, filepath.Join(e.outDir, filepath.FromSlash(src)))
}

// writeWidget records widget root file and copies the whole top level
// widget folder, root file is often nested deeper.
func (e *Exporter) writeWidget(container *etree.Element, row *sheet.Row, page string) {
	src := content.WidgetSource(container)
	row.Set(sheet.WidgetSourceTag, src)
	if src == "" || e.copier == nil {
		return
	}
	top := media.WidgetFolder(src)
	if top == "" {
		e.diags.Warn(common.DiagnosticKindExportWarning, page, 0,
			fmt.Sprintf("Export warning: widget %s is not in the %s folder and was not copied.", src, media.ActivitiesDir))
		return
	}
	full := filepath.Join(e.bookDir, media.ActivitiesDir, top)
	if !exists(full) {
		e.diags.Warn(common.DiagnosticKindMissingMediaFile, page, 0,
			fmt.Sprintf("Export warning: did not find the widget folder %s. It will be missing from the export folder.", full))
		return
	}
	e.copier.Dir(full, filepath.Join(e.outDir, media.ActivitiesDir, top))
}
