// Package styles resolves a node's effective style for a breakpoint.
package styles

import (
	"regexp"
	"sort"
	"strings"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

// HiddenValue is the display value that removes a node and its subtree at a breakpoint.
const HiddenValue = "none"

// Resolve returns the effective default-state style of n at bp.
func Resolve(n *page.Node, bp page.Breakpoint) page.StyleMap {
	return ResolveState(n, bp, page.StateDefault)
}

// ResolveState merges the desktop bucket, then tablet for tablet and mobile, then
// mobile for mobile. Each layer overrides key by key.
func ResolveState(n *page.Node, bp page.Breakpoint, state page.StyleState) page.StyleMap {
	out := page.StyleMap{}
	if n == nil {
		return out
	}
	out.Merge(n.Styles.Bucket(page.Desktop, state))
	if bp == page.Tablet || bp == page.Mobile {
		out.Merge(n.Styles.Bucket(page.Tablet, state))
	}
	if bp == page.Mobile {
		out.Merge(n.Styles.Bucket(page.Mobile, state))
	}
	return out
}

// IsHidden reports whether n resolves to display:none at bp.
func IsHidden(n *page.Node, bp page.Breakpoint) bool {
	return IsHiddenStyle(Resolve(n, bp))
}

// IsHiddenStyle reports whether a resolved map carries the hidden sentinel.
func IsHiddenStyle(m page.StyleMap) bool {
	return strings.TrimSpace(m["display"]) == HiddenValue
}

// InlineCSS renders a style map as declarations sorted by property name.
func InlineCSS(m page.StyleMap) string {
	return strings.Join(Declarations(m), "; ")
}

// Declarations returns "property: value" pairs sorted by attribute name. Empty and
// unsafe values are dropped.
func Declarations(m page.StyleMap) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		v := strings.TrimSpace(m[k])
		if v == "" || !safeValue(v) {
			continue
		}
		out = append(out, PropertyName(k)+": "+v)
	}
	return out
}

var upper = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// PropertyName converts camelCase attribute names into CSS property names.
// Custom properties and names already in kebab-case pass through.
func PropertyName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	return strings.ToLower(upper.ReplaceAllString(name, "$1-$2"))
}

// safeValue rejects values that could break out of a declaration block.
func safeValue(v string) bool {
	return !strings.ContainsAny(v, "{}<>;") && !strings.Contains(strings.ToLower(v), "expression(")
}

var unsafeClassChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// ClassName returns the scoped class used for per-node generated rules.
func ClassName(nodeID string) string {
	return "el-" + unsafeClassChars.ReplaceAllString(nodeID, "_")
}
