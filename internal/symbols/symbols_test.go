package symbols

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drpaneas/gitinsight/internal/model"
)

const goSource = `package demo

const Version = "1"

type Server struct{}

func NewServer() *Server { return &Server{} }

func (s *Server) Start() error { return nil }
`

const pySource = `MAX_SIZE = 10

class Cache:
    def get(self, key):
        return None

def build():
    pass
`

func TestExtractGo(t *testing.T) {
	files := []model.SampledFile{{Path: "server.go", Content: goSource, FetchSucceeded: true}}
	got := Extract(context.Background(), files, 20)

	assert.Contains(t, got, model.Item{Name: "Server", Kind: model.KindClass, Path: "server.go"})
	assert.Contains(t, got, model.Item{Name: "NewServer", Kind: model.KindFunction, Path: "server.go"})
	assert.Contains(t, got, model.Item{Name: "Start", Kind: model.KindFunction, Path: "server.go"})

	var names []string
	for _, it := range got {
		names = append(names, it.Name)
	}
	assert.Less(t, indexOf(names, "Server"), indexOf(names, "NewServer"), "source order")
}

func TestExtractPython(t *testing.T) {
	files := []model.SampledFile{{Path: "cache.py", Content: pySource, FetchSucceeded: true}}
	got := Extract(context.Background(), files, 20)

	assert.Contains(t, got, model.Item{Name: "Cache", Kind: model.KindClass, Path: "cache.py"})
	assert.Contains(t, got, model.Item{Name: "build", Kind: model.KindFunction, Path: "cache.py"})
}

func TestExtractSkipsAndLimits(t *testing.T) {
	files := []model.SampledFile{
		{Path: "failed.go", Content: "", FetchSucceeded: false},
		{Path: "main.rs", Content: "fn main() {}", FetchSucceeded: true},
		{Path: "server.go", Content: goSource, FetchSucceeded: true},
	}
	got := Extract(context.Background(), files, 2)
	assert.Len(t, got, 2)
	for _, it := range got {
		assert.Equal(t, "server.go", it.Path)
	}

	assert.Empty(t, Extract(context.Background(), nil, 20))
	assert.NotNil(t, Extract(context.Background(), nil, 20))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a/b.go"))
	assert.True(t, Supported("app.JSX"))
	assert.True(t, Supported("x.py"))
	assert.False(t, Supported("lib.rs"))
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
