// Package sampler selects a bounded, representative set of source files from
// a repository tree for AI analysis.
package sampler

import (
	"path"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/drpaneas/gitinsight/internal/model"
)

// MaxFiles caps the number of files Select returns.
const MaxFiles = 15

var sourceExts = map[string]bool{
	".go": true, ".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".java": true, ".rb": true, ".rs": true, ".c": true, ".cc": true, ".cpp": true,
	".h": true, ".hpp": true, ".cs": true, ".php": true, ".swift": true, ".kt": true,
	".scala": true, ".vue": true, ".svelte": true,
}

// ExcludedDirs are directory names whose contents are never sampled: vendored
// code, build output, docs, tests, CI configuration and static assets.
var ExcludedDirs = []string{
	"node_modules", "vendor", "dist", "build", "out", "target",
	"docs", "doc",
	"test", "tests", "__tests__", "spec",
	".github", ".circleci", ".gitlab",
	"assets", "static", "public",
}

// A trailing slash makes each pattern match a whole directory segment at any
// depth, so "vendor/" excludes "a/vendor/x.go" but not "myvendor/x.go".
var excluded = func() *ignore.GitIgnore {
	lines := make([]string, len(ExcludedDirs))
	for i, d := range ExcludedDirs {
		lines[i] = d + "/"
	}
	return ignore.CompileIgnoreLines(lines...)
}()

// IsSourceFile reports whether p has an allow-listed source extension.
func IsSourceFile(p string) bool {
	return sourceExts[strings.ToLower(path.Ext(p))]
}

// IsExcluded reports whether p lies under an excluded directory.
func IsExcluded(p string) bool {
	return excluded.MatchesPath(p)
}

// Eligible reports whether a tree entry may be sampled.
func Eligible(e model.TreeEntry) bool {
	return e.Kind == "blob" && IsSourceFile(e.Path) && !IsExcluded(e.Path)
}

// Select returns up to MaxFiles eligible paths in tree order.
func Select(tree []model.TreeEntry) []string {
	var out []string
	for _, e := range tree {
		if len(out) >= MaxFiles {
			break
		}
		if Eligible(e) {
			out = append(out, e.Path)
		}
	}
	return out
}
