package notion

import (
	"encoding/json"
	"fmt"
	"time"
)

// Property type names as they appear on the wire.
const (
	TypeTitle    = "title"
	TypeRichText = "rich_text"
	TypeNumber   = "number"
	TypeSelect   = "select"
	TypeRelation = "relation"
	TypeDate     = "date"
	TypeURL      = "url"
)

// Page is one row of a tabular database. ID is the store's opaque page
// identifier, distinct from the application-level `_id` number property.
type Page struct {
	ID         string     `json:"id"`
	Properties Properties `json:"properties"`
}

// Properties maps property names to values for one page.
type Properties map[string]Property

// Property holds exactly one of the supported property values; Type says
// which. Values the application never writes (people, checkbox, formula, ...)
// are not modeled.
type Property struct {
	Type     string        `json:"type,omitempty"`
	Title    []RichText    `json:"title,omitempty"`
	RichText []RichText    `json:"rich_text,omitempty"`
	Number   *float64      `json:"number,omitempty"`
	Select   *SelectOption `json:"select,omitempty"`
	Relation []Relation    `json:"relation,omitempty"`
	Date     *DateValue    `json:"date,omitempty"`
	URL      *string       `json:"url,omitempty"`
}

// MarshalJSON emits only the variant named by Type. The store rejects
// property objects carrying more than one value key, and an empty rich_text
// array must survive marshalling (it is how a text property is cleared), so
// struct-tag omitempty alone cannot produce the right shape.
func (p Property) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 2)
	m["type"] = p.Type
	switch p.Type {
	case TypeTitle:
		m["title"] = nonNilRichText(p.Title)
	case TypeRichText:
		m["rich_text"] = nonNilRichText(p.RichText)
	case TypeNumber:
		m["number"] = p.Number
	case TypeSelect:
		m["select"] = p.Select
	case TypeRelation:
		if p.Relation == nil {
			m["relation"] = []Relation{}
		} else {
			m["relation"] = p.Relation
		}
	case TypeDate:
		m["date"] = p.Date
	case TypeURL:
		m["url"] = p.URL
	default:
		return nil, fmt.Errorf("notion: cannot marshal property of type %q", p.Type)
	}
	return json.Marshal(m)
}

func nonNilRichText(rt []RichText) []RichText {
	if rt == nil {
		return []RichText{}
	}
	return rt
}

// RichText is one fragment of a title or rich_text property. PlainText is
// populated on responses; Text carries the content on writes.
type RichText struct {
	Type      string `json:"type,omitempty"`
	Text      *TextContent  `json:"text,omitempty"`
	PlainText string `json:"plain_text,omitempty"`
}

type TextContent struct {
	Content string `json:"content"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type Relation struct {
	ID string `json:"id"`
}

// DateValue is a date property value; Start and End are ISO 8601 timestamps.
type DateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// Title builds a title property with a single text fragment.
func Title(s string) Property {
	return Property{Type: TypeTitle, Title: []RichText{textFragment(s)}}
}

// Text builds a rich_text property. An empty string produces an empty
// fragment list, which clears the stored value.
func Text(s string) Property {
	p := Property{Type: TypeRichText, RichText: []RichText{}}
	if s != "" {
		p.RichText = append(p.RichText, textFragment(s))
	}
	return p
}

// Number builds a number property.
func Number(n int64) Property {
	f := float64(n)
	return Property{Type: TypeNumber, Number: &f}
}

// Select builds a select property.
func Select(name string) Property {
	return Property{Type: TypeSelect, Select: &SelectOption{Name: name}}
}

// RelationTo builds a relation property referencing the given page ids.
func RelationTo(pageIDs ...string) Property {
	rel := make([]Relation, 0, len(pageIDs))
	for _, id := range pageIDs {
		rel = append(rel, Relation{ID: id})
	}
	return Property{Type: TypeRelation, Relation: rel}
}

// Date builds a date property. end may be nil for open-ended ranges.
func Date(start time.Time, end *time.Time) Property {
	v := &DateValue{Start: start.Format(time.RFC3339)}
	if end != nil {
		e := end.Format(time.RFC3339)
		v.End = &e
	}
	return Property{Type: TypeDate, Date: v}
}

// URL builds a url property.
func URL(u string) Property {
	return Property{Type: TypeURL, URL: &u}
}

func textFragment(s string) RichText {
	return RichText{Type: "text", Text: &TextContent{Content: s}, PlainText: s}
}

// Text returns the plain text of the first fragment of a title or rich_text
// property, or "" when the property is absent or empty.
func (pg *Page) Text(name string) string {
	p, ok := pg.Properties[name]
	if !ok {
		return ""
	}
	fragments := p.RichText
	if len(fragments) == 0 {
		fragments = p.Title
	}
	if len(fragments) == 0 {
		return ""
	}
	rt := fragments[0]
	if rt.PlainText != "" {
		return rt.PlainText
	}
	if rt.Text != nil {
		return rt.Text.Content
	}
	return ""
}

// Int returns a number property as int64. ok is false when the property is
// absent or holds no number.
func (pg *Page) Int(name string) (v int64, ok bool) {
	p, present := pg.Properties[name]
	if !present || p.Number == nil {
		return 0, false
	}
	return int64(*p.Number), true
}

// SelectName returns the selected option's name, or "".
func (pg *Page) SelectName(name string) string {
	if p, ok := pg.Properties[name]; ok && p.Select != nil {
		return p.Select.Name
	}
	return ""
}

// RelationIDs returns the page ids referenced by a relation property.
func (pg *Page) RelationIDs(name string) []string {
	p, ok := pg.Properties[name]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(p.Relation))
	for _, r := range p.Relation {
		ids = append(ids, r.ID)
	}
	return ids
}

// URLValue returns a url property value, or "".
func (pg *Page) URLValue(name string) string {
	if p, ok := pg.Properties[name]; ok && p.URL != nil {
		return *p.URL
	}
	return ""
}

// DateRange returns the start and end timestamps of a date property. ok is
// false when the property is absent or has no start.
func (pg *Page) DateRange(name string) (start, end string, ok bool) {
	p, present := pg.Properties[name]
	if !present || p.Date == nil || p.Date.Start == "" {
		return "", "", false
	}
	if p.Date.End != nil {
		end = *p.Date.End
	}
	return p.Date.Start, end, true
}

// Sort directions accepted by the query endpoint.
const (
	Ascending  = "ascending"
	Descending = "descending"
)

// Sort orders query results by one property.
type Sort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

// Filter is either a single property condition or an and/or compound.
type Filter struct {
	Property string          `json:"property,omitempty"`
	Relation *RelationFilter `json:"relation,omitempty"`
	Number   *NumberFilter   `json:"number,omitempty"`
	Title    *TextFilter     `json:"title,omitempty"`
	RichText *TextFilter     `json:"rich_text,omitempty"`
	And      []*Filter       `json:"and,omitempty"`
	Or       []*Filter       `json:"or,omitempty"`
}

type RelationFilter struct {
	Contains string `json:"contains,omitempty"`
}

type NumberFilter struct {
	Equals *float64 `json:"equals,omitempty"`
}

type TextFilter struct {
	Equals string `json:"equals,omitempty"`
}

// RelationContains matches pages whose relation property references pageID.
func RelationContains(property, pageID string) *Filter {
	return &Filter{Property: property, Relation: &RelationFilter{Contains: pageID}}
}

// NumberEquals matches pages whose number property equals n.
func NumberEquals(property string, n int64) *Filter {
	f := float64(n)
	return &Filter{Property: property, Number: &NumberFilter{Equals: &f}}
}

// TitleEquals matches pages whose title property equals s exactly.
func TitleEquals(property, s string) *Filter {
	return &Filter{Property: property, Title: &TextFilter{Equals: s}}
}

// And combines filters so that all must match.
func And(filters ...*Filter) *Filter {
	return &Filter{And: filters}
}

// Or combines filters so that at least one must match.
func Or(filters ...*Filter) *Filter {
	return &Filter{Or: filters}
}

// Query describes one database query: an optional filter, optional sorts, and
// an optional page size cap (0 means the store's default).
type Query struct {
	Filter   *Filter `json:"filter,omitempty"`
	Sorts    []Sort  `json:"sorts,omitempty"`
	PageSize int     `json:"page_size,omitempty"`
}
