package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"sbc/config"
	"sbc/content"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context      string
	Title        string
	Language     string
	SourceFolder string
	Pages        int
}

func expandTemplate(doc *content.Document, name config.TemplateFieldName, field string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	facts := readBookFacts(doc)
	values := Values{
		Context:      string(name),
		Title:        facts.title,
		Language:     facts.language,
		SourceFolder: filepath.Base(doc.Dir()),
		Pages:        len(doc.ContentPages()),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
