// Package symbols builds a local index of top-level definitions from source
// files with tree-sitter. It backs up the model's item list when the model
// returns none.
package symbols

import (
	"context"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/drpaneas/gitinsight/internal/model"
)

var captureKinds = map[string]model.ItemKind{
	"definition.function": model.KindFunction,
	"definition.class":    model.KindClass,
	"definition.variable": model.KindVariable,
}

// Supported reports whether definitions can be extracted from path.
func Supported(path string) bool {
	return languageFor(path) != nil
}

// Extract returns up to limit definitions found in files, in file order and
// then source order. Files that failed to fetch or use an unsupported
// language are skipped. Duplicate (name, kind, path) triples are reported once.
func Extract(ctx context.Context, files []model.SampledFile, limit int) []model.Item {
	items := []model.Item{}
	seen := make(map[model.Item]bool)
	for _, f := range files {
		if len(items) >= limit {
			break
		}
		if !f.FetchSucceeded || f.Content == "" {
			continue
		}
		lang := languageFor(f.Path)
		if lang == nil {
			continue
		}
		for _, it := range extractFile(ctx, lang, []byte(f.Content), f.Path) {
			if len(items) >= limit {
				break
			}
			if seen[it] {
				continue
			}
			seen[it] = true
			items = append(items, it)
		}
	}
	return items
}

func extractFile(ctx context.Context, lang *language, source []byte, filePath string) []model.Item {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang.grammar)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	type found struct {
		offset uint32
		item   model.Item
	}
	var all []found
	for _, q := range lang.compiled() {
		qc := sitter.NewQueryCursor()
		qc.Exec(q, tree.RootNode())
		for {
			match, ok := qc.NextMatch()
			if !ok {
				break
			}
			var nameNode *sitter.Node
			var kind model.ItemKind
			for _, c := range match.Captures {
				cname := q.CaptureNameForId(c.Index)
				if cname == "name" {
					nameNode = c.Node
				} else if k, ok := captureKinds[cname]; ok {
					kind = k
				}
			}
			if nameNode == nil || kind == "" {
				continue
			}
			all = append(all, found{
				offset: nameNode.StartByte(),
				item:   model.Item{Name: nameNode.Content(source), Kind: kind, Path: filePath},
			})
		}
		qc.Close()
	}

	// Queries run per pattern; restore source order across them.
	sort.SliceStable(all, func(i, j int) bool { return all[i].offset < all[j].offset })
	out := make([]model.Item, len(all))
	for i, f := range all {
		out[i] = f.item
	}
	return out
}
