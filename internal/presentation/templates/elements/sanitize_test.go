package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text is escaped", `a < b & c`, `a &lt; b &amp; c`},
		{"inline markup survives", `<strong>bold</strong> and <em>em</em>`, `<strong>bold</strong> and <em>em</em>`},
		{"script removed with body", `ok<script>alert(1)</script>`, `ok`},
		{"handlers stripped", `<span onmouseover="x()" title="t">s</span>`, `<span title="t">s</span>`},
		{"comments dropped", `a<!-- hidden -->b`, `ab`},
		{"unsafe style dropped", `<span style="background:url(javascript:x)">s</span>`, `<span>s</span>`},
		{"safe link kept", `<a href="https://example.com">e</a>`, `<a href="https://example.com">e</a>`},
		{"fragment link kept", `<a href="#top">t</a>`, `<a href="#top">t</a>`},
		{"data url dropped", `<img src="data:text/html;base64,xx">`, `<img/>`},
		{"empty", "  ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, string(SanitizeHTML(tc.in)))
		})
	}
}

func TestSafeURL(t *testing.T) {
	assert.Equal(t, "https://a.test/x", SafeURL(" https://a.test/x "))
	assert.Equal(t, "/pricing", SafeURL("/pricing"))
	assert.Equal(t, "mailto:hi@a.test", SafeURL("mailto:hi@a.test"))
	assert.Equal(t, "#", SafeURL("javascript:alert(1)"))
	assert.Equal(t, "#", SafeURL("JavaScript:alert(1)"))
	assert.Equal(t, "#", SafeURL(""))
}

func TestCSSURL(t *testing.T) {
	v, ok := cssURL("https://cdn.test/bg.jpg")
	assert.True(t, ok)
	assert.Equal(t, `url("https://cdn.test/bg.jpg")`, v)

	for _, bad := range []string{"", "javascript:x", `https://a.test/x");color:red`, "mailto:a@b.test"} {
		_, ok := cssURL(bad)
		assert.False(t, ok, bad)
	}
}
