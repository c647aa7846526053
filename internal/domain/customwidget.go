package domain

import (
	"encoding/json"
	"time"
)

// CustomWidget holds pre-rendered content supplied by an external
// integration. The content document is one of: a plain string, an
// ordered list of strings, a {label|title, value} object, or a grid
// descriptor with positioned cells.
type CustomWidget struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"` // raw content JSON
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustomContent is the parsed form of a custom widget's content.
// Exactly one of the fields is set.
type CustomContent struct {
	Text       string
	List       []string
	LabelValue *LabelValue
	Grid       *Grid
}

type LabelValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Grid struct {
	Cols  int        `json:"cols"`
	Rows  int        `json:"rows"`
	Gap   int        `json:"gap"`
	Cells []GridCell `json:"cells"`
}

type GridCell struct {
	Row            int    `json:"row"`
	Col            int    `json:"col"`
	Field          string `json:"field"`
	FieldType      string `json:"fieldType"` // text|number|image
	Label          string `json:"label"`
	Value          string `json:"value"`
	FormattedValue string `json:"formattedValue"`
	Align          string `json:"align"`
	VerticalAlign  string `json:"verticalAlign"`
}

// ParseCustomContent interprets the stored content document. A document
// that fits none of the known shapes is treated as its raw text.
func ParseCustomContent(raw string) CustomContent {
	data := []byte(raw)

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return CustomContent{Text: s}
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return CustomContent{List: list}
	}

	var obj struct {
		Label string `json:"label"`
		Title string `json:"title"`
		Value string `json:"value"`
		Cols  int    `json:"cols"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.Cols > 0 {
			var g Grid
			if err := json.Unmarshal(data, &g); err == nil {
				return CustomContent{Grid: &g}
			}
		}
		label := obj.Label
		if label == "" {
			label = obj.Title
		}
		if label != "" || obj.Value != "" {
			return CustomContent{LabelValue: &LabelValue{Label: label, Value: obj.Value}}
		}
	}

	return CustomContent{Text: raw}
}
