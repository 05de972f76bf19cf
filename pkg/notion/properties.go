package notion

import (
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
)

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
	}
}

// BuildProperties converts a field map to Notion page properties. The field
// named titleField becomes the title property and "URL" becomes a url
// property. Numbers and booleans map to number and checkbox properties;
// everything else is stored as rich_text.
func BuildProperties(fields map[string]any, titleField string) notionapi.Properties {
	props := make(notionapi.Properties, len(fields))
	for k, v := range fields {
		switch {
		case strings.EqualFold(k, titleField):
			props[k] = notionapi.TitleProperty{
				Type:  notionapi.PropertyTypeTitle,
				Title: richText(fmt.Sprint(v)),
			}
		case strings.EqualFold(k, "URL"):
			props[k] = notionapi.URLProperty{
				Type: notionapi.PropertyTypeURL,
				URL:  fmt.Sprint(v),
			}
		default:
			props[k] = valueProperty(v)
		}
	}
	return props
}

func valueProperty(v any) notionapi.Property {
	switch x := v.(type) {
	case bool:
		return notionapi.CheckboxProperty{Type: notionapi.PropertyTypeCheckbox, Checkbox: x}
	case int:
		return notionapi.NumberProperty{Type: notionapi.PropertyTypeNumber, Number: float64(x)}
	case int64:
		return notionapi.NumberProperty{Type: notionapi.PropertyTypeNumber, Number: float64(x)}
	case float64:
		return notionapi.NumberProperty{Type: notionapi.PropertyTypeNumber, Number: x}
	case nil:
		return notionapi.RichTextProperty{Type: notionapi.PropertyTypeRichText, RichText: []notionapi.RichText{}}
	default:
		return notionapi.RichTextProperty{Type: notionapi.PropertyTypeRichText, RichText: richText(fmt.Sprint(x))}
	}
}

func plainText(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		if rt.PlainText != "" {
			b.WriteString(rt.PlainText)
		} else if rt.Text != nil {
			b.WriteString(rt.Text.Content)
		}
	}
	return strings.TrimSpace(b.String())
}

// PageFields flattens the properties of a page into a field map. Property
// types without a scalar value are skipped.
func PageFields(page notionapi.Page) map[string]any {
	fields := make(map[string]any, len(page.Properties))
	for name, prop := range page.Properties {
		switch p := prop.(type) {
		case *notionapi.TitleProperty:
			fields[name] = plainText(p.Title)
		case *notionapi.RichTextProperty:
			fields[name] = plainText(p.RichText)
		case *notionapi.URLProperty:
			fields[name] = p.URL
		case *notionapi.NumberProperty:
			fields[name] = p.Number
		case *notionapi.CheckboxProperty:
			fields[name] = p.Checkbox
		case *notionapi.SelectProperty:
			fields[name] = p.Select.Name
		case *notionapi.StatusProperty:
			fields[name] = p.Status.Name
		case *notionapi.EmailProperty:
			fields[name] = p.Email
		}
	}
	return fields
}
