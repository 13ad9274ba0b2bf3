package importer

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"sbc/common"
	"sbc/content"
	"sbc/sheet"
	"sbc/templates"
)

// pageState is content page with its slot consumption counters.
type pageState struct {
	*content.Page
	existing bool
	touched  bool
	// bypassed page could not hold its row group, which went to inserted
	// page instead
	bypassed bool
	used     map[common.SlotKind]int
}

func newPageState(el *etree.Element, existing bool) *pageState {
	return &pageState{
		Page:     content.Classify(el),
		existing: existing,
		used:     make(map[common.SlotKind]int),
	}
}

// number returns page number as it is now, pages are renumbered on every
// insertion.
func (p *pageState) number() string {
	return content.PageNumber(p.El)
}

func (p *pageState) free(kind common.SlotKind) int {
	return len(p.Slots(kind)) - p.used[kind]
}

func (p *pageState) fits(kinds []common.SlotKind) bool {
	for _, k := range kinds {
		if p.free(k) == 0 {
			return false
		}
	}
	return true
}

func (p *pageState) fitsAny(kinds []common.SlotKind) bool {
	return slices.ContainsFunc(kinds, func(k common.SlotKind) bool { return p.free(k) > 0 })
}

// take consumes next free slot of the kind.
func (p *pageState) take(kind common.SlotKind) *content.Slot {
	s := p.Slots(kind)[p.used[kind]]
	p.used[kind]++
	p.touched = true
	return s
}

// pageTracker holds state of content pages for single import run.
type pageTracker struct {
	existing []*pageState
	added    []*pageState
	inserted int
}

func newPageTracker(doc *content.Document) *pageTracker {
	t := &pageTracker{}
	for _, el := range doc.ContentPages() {
		t.existing = append(t.existing, newPageState(el, true))
	}
	return t
}

func (t *pageTracker) all() []*pageState {
	return slices.Concat(t.existing, t.added)
}

// find returns existing page which had the number when import started.
// Untouched pages at or after from win, then untouched pages anywhere, then
// any page with the number.
func (t *pageTracker) find(number string, from int) *pageState {
	var untouched, other *pageState
	for i, p := range t.existing {
		if p.Number != number || p.bypassed {
			continue
		}
		switch {
		case !p.touched && i >= from:
			return p
		case !p.touched && untouched == nil:
			untouched = p
		case other == nil:
			other = p
		}
	}
	if untouched != nil {
		return untouched
	}
	return other
}

// firstUntouched returns first existing page at or after from nothing was
// imported into.
func (t *pageTracker) firstUntouched(from int) *pageState {
	for i := max(from, 0); i < len(t.existing); i++ {
		if p := t.existing[i]; !p.touched && !p.bypassed {
			return p
		}
	}
	return nil
}

func (t *pageTracker) index(p *pageState) int {
	return slices.Index(t.existing, p)
}

// cursor is position of reconciliation in the book.
type cursor struct {
	// next is index of existing page unnumbered rows start looking from
	next int
	// work is page rows currently go to
	work *pageState
	// group is page number of current row group and page it matched
	group     string
	groupPage *pageState
	// skip is page number which was not found in the book
	skip string
}

// placement is slot chosen for one kind of content of the row.
type placement struct {
	kind common.SlotKind
	page *pageState
	slot *content.Slot
}

// rowNeeds returns kinds of content the row carries. Row without any media
// source always takes text slot, even with no text, to keep following rows
// aligned to the same slots they were exported from.
func (im *Importer) rowNeeds(row *sheet.Row) []common.SlotKind {
	var needs []common.SlotKind
	if slices.ContainsFunc(im.langs, func(l string) bool { return row.Get(sheet.LangTag(l)) != "" }) {
		needs = append(needs, common.SlotKindText)
	}
	if row.Get(sheet.ImageSourceTag) != "" {
		needs = append(needs, common.SlotKindImage)
	}
	if row.Get(sheet.VideoSourceTag) != "" {
		needs = append(needs, common.SlotKindVideo)
	}
	if row.Get(sheet.WidgetSourceTag) != "" {
		needs = append(needs, common.SlotKindWidget)
	}
	if len(needs) == 0 {
		needs = append(needs, common.SlotKindText)
	}
	return needs
}

// importContent places content row on a page and writes it there.
func (im *Importer) importContent(row *sheet.Row, r int) error {
	num := strings.TrimSpace(row.Get(sheet.PageNumberTag))
	if num != "" && num == im.cur.skip {
		return nil
	}
	if num != "" && num != im.cur.group {
		p := im.pages.find(num, im.cur.next)
		if p == nil {
			im.diags.Warn(common.DiagnosticKindPageNotFound, num, r,
				fmt.Sprintf("Input has rows for page %s, but document has no page %s that can hold this content", num, num))
			im.cur.skip = num
			return nil
		}
		im.cur = cursor{next: im.pages.index(p), group: num, groupPage: p}
		im.redirectGroup(p, num, r)
	}

	for _, pl := range im.place(row, r, num) {
		page := pl.page.number()
		switch pl.kind {
		case common.SlotKindText:
			if err := im.importText(row, pl.slot, page, r); err != nil {
				return err
			}
		case common.SlotKindImage:
			im.importImage(row, pl.slot, page, r)
			im.lastImage, im.descUsed = pl.slot, 0
		case common.SlotKindVideo:
			im.importVideo(row, pl.slot, page, r)
		case common.SlotKindWidget:
			im.importWidget(row, pl.slot, page, r)
		}
	}
	return nil
}

// groupNeeds counts slots of every kind rows of the page group starting at
// row r require. Group ends with the first content row for another page.
// Groups which request page type are reported with false.
func (im *Importer) groupNeeds(num string, r int) (map[common.SlotKind]int, bool) {
	needs := make(map[common.SlotKind]int)
	for _, row := range im.grid.Rows()[r-headerRows-1:] {
		switch row.Type() {
		case sheet.RowImageDescription:
			continue
		case sheet.RowPageContent:
		default:
			return needs, true
		}
		if strings.TrimSpace(row.Get(sheet.PageNumberTag)) != num {
			break
		}
		if strings.TrimSpace(row.Get(sheet.PageTypeTag)) != "" {
			return nil, false
		}
		for _, k := range im.rowNeeds(row) {
			needs[k]++
		}
	}
	return needs, true
}

// conflicts reports page layout which does not suit the group: some kind of
// content has no slot on the page while page has slots of a kind group does
// not use. Shortage of slots of the right kind is not a conflict, rows
// which do not fit go to pages inserted after it.
func conflicts(p *pageState, needs map[common.SlotKind]int) bool {
	var missing, unused bool
	for _, k := range []common.SlotKind{common.SlotKindText, common.SlotKindImage, common.SlotKindVideo, common.SlotKindWidget} {
		have := len(p.Slots(k))
		switch {
		case needs[k] > 0 && have == 0:
			missing = true
		case needs[k] == 0 && have > 0:
			unused = true
		}
	}
	return missing && unused
}

// redirectGroup checks whether page matched by number can take its row
// group. When it cannot, page made from template inferred for the whole
// group is inserted in front of it and the group goes there, matched page is
// left as is.
func (im *Importer) redirectGroup(p *pageState, num string, r int) {
	if !im.cfg.InsertPages || p.touched {
		return
	}
	needs, ok := im.groupNeeds(num, r)
	if !ok || !conflicts(p, needs) {
		return
	}
	kinds := slices.Sorted(maps.Keys(needs))
	t, ok := im.lib.Infer(kinds)
	if !ok {
		return
	}
	added := im.insert(t, num, r)
	p.bypassed = true
	im.cur.groupPage = added
	im.diags.Warn(common.DiagnosticKindPageNotUpdated, p.number(), r,
		fmt.Sprintf("Page %s was not updated because it has no room for the kinds of content of rows for page %s, page of type '%s' was inserted for them.", p.number(), num, t.Label))
	im.log.Debug("Row group redirected", zap.Int("row", r), zap.String("page", num), zap.Any("needs", needs))
}

// candidate returns existing page row may go to without insertion: page
// matched by number for numbered rows, next untouched page otherwise.
func (im *Importer) candidate(num string) *pageState {
	if num != "" {
		if p := im.cur.groupPage; p != nil && !p.touched {
			return p
		}
		return nil
	}
	return im.pages.firstUntouched(im.cur.next)
}

// use makes page current one.
func (im *Importer) use(p *pageState) {
	im.cur.work = p
	if i := im.pages.index(p); i >= 0 {
		im.cur.next = i
	}
}

// fill consumes free slots of the page, returns kinds page had no room for.
func fill(p *pageState, kinds []common.SlotKind, out []placement) ([]common.SlotKind, []placement) {
	var rest []common.SlotKind
	for _, k := range kinds {
		if p.free(k) == 0 {
			rest = append(rest, k)
			continue
		}
		out = append(out, placement{kind: k, page: p, slot: p.take(k)})
	}
	return rest, out
}

func (im *Importer) place(row *sheet.Row, r int, num string) []placement {
	var (
		out   []placement
		needs = im.rowNeeds(row)
	)
	if name := strings.TrimSpace(row.Get(sheet.PageTypeTag)); name != "" {
		needs, out = im.placeRequested(name, needs, r, num, out)
	}

	for len(needs) > 0 {
		p := im.target(needs, num)
		if p == nil {
			if !im.cfg.InsertPages {
				im.overflow(needs, r)
				break
			}
			t, ok := im.lib.Infer(needs)
			if !ok {
				im.overflow(needs, r)
				break
			}
			p = im.insert(t, num, r)
			if !p.fitsAny(needs) {
				im.overflow(needs, r)
				break
			}
		}
		im.use(p)
		needs, out = fill(p, needs, out)
	}
	return out
}

// target returns page which can take the row as a whole: current page or
// candidate. Without page insertion partial fit is accepted.
func (im *Importer) target(needs []common.SlotKind, num string) *pageState {
	w, d := im.cur.work, im.candidate(num)
	switch {
	case w != nil && w.fits(needs):
		return w
	case d != nil && d.fits(needs):
		return d
	case im.cfg.InsertPages:
		return nil
	case w != nil && w.fitsAny(needs):
		return w
	case d != nil && d.fitsAny(needs):
		return d
	}
	return nil
}

// placeRequested handles row asking for page type. Candidate page of that
// type is used, otherwise page of requested type is inserted. Whatever does
// not fit goes through normal placement.
func (im *Importer) placeRequested(name string, needs []common.SlotKind, r int, num string, out []placement) ([]common.SlotKind, []placement) {
	t, found := im.lib.Find(name)
	d := im.candidate(num)
	if d != nil && (strings.EqualFold(d.Label, name) || found && content.HasLineage(d.El, t.ID)) && d.fitsAny(needs) {
		im.use(d)
		return fill(d, needs, out)
	}
	switch {
	case !found:
		im.diags.Warn(common.DiagnosticKindPageTypeUnusable, im.cur.group, r,
			fmt.Sprintf("Row %d requested page type '%s' but no such page type is available.", r, name))
		return needs, out
	case !t.HoldsAny(needs):
		im.diags.Warn(common.DiagnosticKindPageTypeUnusable, im.cur.group, r,
			fmt.Sprintf("Row %d requested page type '%s' but contains no data suitable for that page type.", r, name))
		return needs, out
	case !im.cfg.InsertPages:
		im.log.Debug("Requested page type ignored, page insertion is off", zap.Int("row", r), zap.String("type", name))
		return needs, out
	}
	p := im.insert(t, num, r)
	im.use(p)
	return fill(p, needs, out)
}

// insert adds page made from template before untouched candidate page or
// after current page, at the end of content otherwise.
func (im *Importer) insert(t *templates.Template, num string, r int) *pageState {
	w, d := im.cur.work, im.candidate(num)

	var sample *etree.Element
	switch {
	case w != nil:
		sample = w.El
	case d != nil:
		sample = d.El
	case len(im.pages.existing) > 0:
		sample = im.pages.existing[0].El
	}
	el := t.NewPage(sample)
	switch {
	case d != nil:
		content.InsertPageBefore(d.El, el)
	case w != nil:
		content.InsertPageAfter(w.El, el)
	default:
		im.doc.AppendPage(el)
	}
	im.doc.Renumber()

	if !im.installed[t.ID] {
		im.installed[t.ID] = true
		if err := t.Install(im.doc, im.bookDir); err != nil {
			im.diags.Warn(common.DiagnosticKindPageTypeUnusable, content.PageNumber(el), r, err.Error())
		}
	}

	p := newPageState(el, false)
	im.pages.added = append(im.pages.added, p)
	im.pages.inserted++
	im.log.Debug("Page inserted", zap.Int("row", r), zap.String("template", t.Label), zap.String("page", p.number()))
	return p
}

// overflow reports content no page could take.
func (im *Importer) overflow(kinds []common.SlotKind, r int) {
	page := im.cur.group
	if w := im.cur.work; w != nil {
		page = w.number()
	}
	for _, k := range kinds {
		block := 1
		if w := im.cur.work; w != nil {
			block = w.used[k] + 1
		}
		im.diags.Warn(common.DiagnosticKindPageCapacityExceeded, page, r,
			fmt.Sprintf("Input has more %s blocks than there is room for on page %s, row %d (%s block %d) was not imported.", k, page, r, k, block))
	}
}
