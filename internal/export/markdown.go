// Package export renders analysis results for use outside the tool.
package export

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"github.com/drpaneas/gitinsight/internal/model"
)

type itemSection struct {
	Kind  model.ItemKind
	Items []model.Item
}

var itemsTemplate = template.Must(template.New("items").Parse(
	`{{range $i, $s := .}}{{if $i}}
{{end}}## {{$s.Kind}}

{{range $s.Items}}- ` + "`{{.Name}}`" + ` - *{{.Path}}*
{{end}}{{end}}`))

// ItemsMarkdown renders items as one "##" section per kind, in Function,
// Class, Variable order. Kinds with no items are omitted.
func ItemsMarkdown(items []model.Item) (string, error) {
	var buf bytes.Buffer
	if err := WriteItemsMarkdown(&buf, items); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteItemsMarkdown writes the ItemsMarkdown rendering to w.
func WriteItemsMarkdown(w io.Writer, items []model.Item) error {
	var sections []itemSection
	for _, kind := range model.ItemKinds {
		s := itemSection{Kind: kind}
		for _, it := range items {
			if it.Kind == kind {
				s.Items = append(s.Items, it)
			}
		}
		if len(s.Items) > 0 {
			sections = append(sections, s)
		}
	}
	if err := itemsTemplate.Execute(w, sections); err != nil {
		return fmt.Errorf("rendering items: %w", err)
	}
	return nil
}
