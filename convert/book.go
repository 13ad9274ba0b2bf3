package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"sbc/content"
)

// ErrNoBook is returned when book folder has no book document.
var ErrNoBook = errors.New("no book document found")

// findBook returns path of the book document: argument itself when it is a
// document, otherwise document of the folder named after it or the only
// document there is.
func findBook(src string) (string, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		if !strings.EqualFold(filepath.Ext(src), ".htm") {
			return "", fmt.Errorf("%w: %s is not a .htm file", ErrNoBook, src)
		}
		return src, nil
	}

	named := filepath.Join(src, filepath.Base(src)+".htm")
	if _, err := os.Stat(named); err == nil {
		return named, nil
	}
	books, err := filepath.Glob(filepath.Join(src, "*.htm"))
	if err != nil {
		return "", err
	}
	switch len(books) {
	case 0:
		return "", fmt.Errorf("%w in %s", ErrNoBook, src)
	case 1:
		return books[0], nil
	}
	sort.Sort(natural.StringSlice(books))
	return "", fmt.Errorf("%w: %s has several documents (%s), name the one to use", ErrNoBook, src, strings.Join(books, ", "))
}

// bookFacts are values of the book data div used in output names.
type bookFacts struct {
	title    string
	language string
}

func readBookFacts(doc *content.Document) bookFacts {
	var (
		facts  bookFacts
		titles = make(map[string]string)
		first  string
	)
	for _, el := range doc.DataBookElements() {
		lang := content.Lang(el)
		switch el.SelectAttrValue(content.AttrDataBook, "") {
		case "contentLanguage1":
			if facts.language == "" {
				facts.language = strings.TrimSpace(content.TextContent(el))
			}
		case "bookTitle":
			if lang == content.TemplateLang {
				continue
			}
			title := strings.Join(strings.Fields(content.TextContent(el)), " ")
			if title == "" {
				continue
			}
			if _, ok := titles[lang]; !ok {
				titles[lang] = title
			}
			if first == "" {
				first = title
			}
		}
	}
	facts.title = first
	if t, ok := titles[facts.language]; ok {
		facts.title = t
	}
	return facts
}
