package symbols

import (
	"log/slog"
	"path"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

// language pairs a grammar with its definition patterns. Each pattern
// captures the defined identifier as @name and the definition node as
// @definition.function, @definition.class or @definition.variable.
type language struct {
	name       string
	extensions []string
	grammar    *sitter.Language
	patterns   []string

	once    sync.Once
	queries []*sitter.Query
}

var languages = []*language{
	{
		name:       "go",
		extensions: []string{".go"},
		grammar:    golang.GetLanguage(),
		patterns: []string{
			`(function_declaration name: (identifier) @name) @definition.function`,
			`(method_declaration name: (field_identifier) @name) @definition.function`,
			`(type_spec name: (type_identifier) @name) @definition.class`,
			`(source_file (var_declaration (var_spec name: (identifier) @name) @definition.variable))`,
			`(source_file (const_declaration (const_spec name: (identifier) @name) @definition.variable))`,
		},
	},
	{
		name:       "python",
		extensions: []string{".py"},
		grammar:    python.GetLanguage(),
		patterns: []string{
			`(function_definition name: (identifier) @name) @definition.function`,
			`(class_definition name: (identifier) @name) @definition.class`,
			`(module (expression_statement (assignment left: (identifier) @name) @definition.variable))`,
		},
	},
	{
		name:       "javascript",
		extensions: []string{".js", ".jsx", ".mjs"},
		grammar:    javascript.GetLanguage(),
		patterns: []string{
			`(function_declaration name: (identifier) @name) @definition.function`,
			`(method_definition name: (property_identifier) @name) @definition.function`,
			`(class_declaration name: (identifier) @name) @definition.class`,
			`(program (lexical_declaration (variable_declarator name: (identifier) @name) @definition.variable))`,
			`(program (variable_declaration (variable_declarator name: (identifier) @name) @definition.variable))`,
		},
	},
}

// compiled returns the language's queries, compiling them on first use.
// Patterns are compiled one by one so a grammar that renamed a node only
// loses that pattern. The result is safe to share across goroutines.
func (l *language) compiled() []*sitter.Query {
	l.once.Do(func() {
		for _, p := range l.patterns {
			q, err := sitter.NewQuery([]byte(p), l.grammar)
			if err != nil {
				slog.Debug("skipping symbol query", "language", l.name, "pattern", p, "error", err)
				continue
			}
			l.queries = append(l.queries, q)
		}
	})
	return l.queries
}

func languageFor(p string) *language {
	ext := strings.ToLower(path.Ext(p))
	for _, l := range languages {
		for _, e := range l.extensions {
			if e == ext {
				return l
			}
		}
	}
	return nil
}
