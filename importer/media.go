package importer

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/beevik/etree"

	"sbc/common"
	"sbc/content"
	"sbc/media"
	"sbc/sheet"
)

// sourcePath resolves media path of the spreadsheet.
func (im *Importer) sourcePath(cell string) string {
	if filepath.IsAbs(cell) {
		return cell
	}
	return filepath.Join(im.ssDir, filepath.FromSlash(cell))
}

// importImage sets image of the container. Images live in the book folder
// itself, blank marker stands for placeholder image.
func (im *Importer) importImage(row *sheet.Row, slot *content.Slot, page string, r int) {
	cell := strings.TrimSpace(row.Get(sheet.ImageSourceTag))
	name := media.PlaceholderImage
	if cell != sheet.BlankMarker {
		name = path.Base(filepath.ToSlash(cell))
		im.copyImage(cell, name, page, r)
	}
	setImage(slot.El, name)
}

func (im *Importer) copyImage(cell, name, page string, r int) {
	src := im.sourcePath(cell)
	if !exists(src) {
		im.diags.Warn(common.DiagnosticKindMissingMediaFile, page, r,
			fmt.Sprintf("Image %s for row %d was not found, the book will refer to it anyway.", src, r))
		return
	}
	im.copier.File(src, filepath.Join(im.bookDir, name))
}

// setImage points image container to the file. Container which already
// shows it is left alone, otherwise its attributes (except class) are
// dropped along with whatever img had.
func setImage(container *etree.Element, name string) {
	if content.ImageSource(container) == name {
		return
	}
	for _, a := range slices.Clone(container.Attr) {
		if a.Key != "class" {
			container.RemoveAttr(a.FullKey())
		}
	}
	img := content.Image(container)
	if img == nil {
		img = etree.NewElement("img")
		container.InsertChildAt(0, img)
	}
	img.Attr = nil
	img.CreateAttr("src", content.EncodeFileURL(name))
	img.CreateAttr("alt", "")
}

// importVideo sets video of the container, book keeps videos in their own
// folder.
func (im *Importer) importVideo(row *sheet.Row, slot *content.Slot, page string, r int) {
	cell := strings.TrimSpace(row.Get(sheet.VideoSourceTag))
	rel := path.Join(media.VideoDir, path.Base(filepath.ToSlash(cell)))

	if src := im.sourcePath(cell); exists(src) {
		im.copier.File(src, filepath.Join(im.bookDir, filepath.FromSlash(rel)))
	} else {
		im.diags.Warn(common.DiagnosticKindMissingMediaFile, page, r,
			fmt.Sprintf("Video %s for row %d was not found, the book will refer to it anyway.", src, r))
	}

	container := slot.El
	content.RemoveClass(container, content.ClassNoVideo)
	video := child(container, "video")
	source := child(video, "source")
	content.SetAttr(source, "src", content.EncodePathURL(rel))
}

// importWidget sets widget root file of the container and copies the whole
// widget folder.
func (im *Importer) importWidget(row *sheet.Row, slot *content.Slot, page string, r int) {
	cell := path.Clean(filepath.ToSlash(strings.TrimSpace(row.Get(sheet.WidgetSourceTag))))
	top := media.WidgetFolder(cell)
	if top == "" {
		im.diags.Warn(common.DiagnosticKindMissingMediaFile, page, r,
			fmt.Sprintf("Widget %s for row %d is not in the %s folder and was not imported.", cell, r, media.ActivitiesDir))
		return
	}

	if src := filepath.Join(im.ssDir, media.ActivitiesDir, top); exists(src) {
		im.copier.Dir(src, filepath.Join(im.bookDir, media.ActivitiesDir, top))
	} else {
		im.diags.Warn(common.DiagnosticKindMissingMediaFile, page, r,
			fmt.Sprintf("Widget folder %s for row %d was not found, the book will refer to it anyway.", src, r))
	}

	frame := child(slot.El, "iframe")
	content.SetAttr(frame, "src", content.EncodePathURL(cell))
}

// child returns first descendant with the tag, creating direct child when
// there is none.
func child(parent *etree.Element, tag string) *etree.Element {
	if e := content.FindFirst(parent, func(e *etree.Element) bool { return strings.EqualFold(e.Tag, tag) }); e != nil {
		return e
	}
	return parent.CreateElement(tag)
}
