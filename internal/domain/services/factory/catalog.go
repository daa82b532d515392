// Package factory builds default element subtrees from the embedded catalog and
// hydrates AI layout descriptors into validated nodes.
package factory

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// ChildSpec is one entry of a composite's default child skeleton.
type ChildSpec struct {
	Kind    page.Kind `yaml:"kind"`
	Content any       `yaml:"content"`
}

// Entry is the palette definition of one element kind.
type Entry struct {
	Kind     page.Kind         `yaml:"-"`
	Label    string            `yaml:"label"`
	Category string            `yaml:"category"`
	Styles   map[string]string `yaml:"styles"`
	Tablet   map[string]string `yaml:"tablet"`
	Mobile   map[string]string `yaml:"mobile"`
	Content  any               `yaml:"content"`
	Children []ChildSpec       `yaml:"children"`

	CanvasOnly bool `yaml:"-"`
	Timed      bool `yaml:"-"`
	RichText   bool `yaml:"-"`
}

var catalog = mustLoadCatalog(catalogYAML)

func mustLoadCatalog(data []byte) map[page.Kind]Entry {
	entries, err := loadCatalog(data)
	if err != nil {
		panic(err)
	}
	return entries
}

func loadCatalog(data []byte) (map[page.Kind]Entry, error) {
	raw := make(map[string]Entry)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse element catalog: %w", err)
	}

	entries := make(map[page.Kind]Entry, len(raw))
	for name, e := range raw {
		kind := page.Kind(name)
		if !kind.Known() {
			return nil, fmt.Errorf("element catalog lists unknown kind %q", name)
		}
		for _, child := range e.Children {
			if !child.Kind.Known() {
				return nil, fmt.Errorf("element catalog: %s has unknown child kind %q", name, child.Kind)
			}
		}
		e.Kind = kind
		e.CanvasOnly = kind.IsCanvasOnly()
		e.Timed = kind.IsTimed()
		e.RichText = kind.IsRichText()
		entries[kind] = e
	}
	return entries, nil
}

// Lookup returns the catalog entry for kind.
func Lookup(kind page.Kind) (Entry, bool) {
	e, ok := catalog[kind]
	return e, ok
}

// Catalog lists every entry ordered by kind name.
func Catalog() []Entry {
	out := make([]Entry, 0, len(catalog))
	for _, k := range page.Kinds() {
		if e, ok := catalog[k]; ok {
			out = append(out, e)
		}
	}
	return out
}

// encodeLiteral turns a catalog or descriptor content literal into the stored
// string form. Strings are kept verbatim, anything else becomes JSON.
func encodeLiteral(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		b, err := json.Marshal(c)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
