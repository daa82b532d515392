package page

import "encoding/json"

// PageStyles is the document-wide style settings record.
type PageStyles struct {
	FontFamily      string            `json:"fontFamily,omitempty"`
	BackgroundColor string            `json:"backgroundColor,omitempty"`
	TextColor       string            `json:"textColor,omitempty"`
	GlobalCSS       string            `json:"globalCss,omitempty"`
	Colors          map[string]string `json:"colors,omitempty"`
	Fonts           map[string]string `json:"fonts,omitempty"`
}

// PageStylesPatch carries the fields of a partial page style update. Nil fields are
// left untouched; map fields replace the whole map.
type PageStylesPatch struct {
	FontFamily      *string           `json:"fontFamily,omitempty"`
	BackgroundColor *string           `json:"backgroundColor,omitempty"`
	TextColor       *string           `json:"textColor,omitempty"`
	GlobalCSS       *string           `json:"globalCss,omitempty"`
	Colors          map[string]string `json:"colors,omitempty"`
	Fonts           map[string]string `json:"fonts,omitempty"`
}

// Merge returns a copy of ps with the patch applied.
func (ps PageStyles) Merge(p PageStylesPatch) PageStyles {
	out := ps.Clone()
	if p.FontFamily != nil {
		out.FontFamily = *p.FontFamily
	}
	if p.BackgroundColor != nil {
		out.BackgroundColor = *p.BackgroundColor
	}
	if p.TextColor != nil {
		out.TextColor = *p.TextColor
	}
	if p.GlobalCSS != nil {
		out.GlobalCSS = *p.GlobalCSS
	}
	if p.Colors != nil {
		out.Colors = copyStrings(p.Colors)
	}
	if p.Fonts != nil {
		out.Fonts = copyStrings(p.Fonts)
	}
	return out
}

// Clone deep copies the token maps.
func (ps PageStyles) Clone() PageStyles {
	out := ps
	out.Colors = copyStrings(ps.Colors)
	out.Fonts = copyStrings(ps.Fonts)
	return out
}

func copyStrings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Document is the persisted aggregate: the canvas node list and page styles.
type Document struct {
	Content    []*Node    `json:"content"`
	PageStyles PageStyles `json:"pageStyles"`
}

// Clone deep copies the document.
func (d Document) Clone() Document {
	return Document{Content: CloneNodes(d.Content), PageStyles: d.PageStyles.Clone()}
}

// ParseDocument decodes a persisted document. A null content list becomes empty.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	doc.Content = compact(doc.Content)
	if doc.Content == nil {
		doc.Content = []*Node{}
	}
	return doc, nil
}

// MarshalNodes serializes a node list in its canonical form.
func MarshalNodes(nodes []*Node) []byte {
	if nodes == nil {
		nodes = []*Node{}
	}
	b, err := json.Marshal(nodes)
	if err != nil {
		return []byte("[]")
	}
	return b
}

// MarshalDocument serializes a document in its canonical form.
func MarshalDocument(doc Document) []byte {
	if doc.Content == nil {
		doc.Content = []*Node{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return []byte(`{"content":[],"pageStyles":{}}`)
	}
	return b
}
