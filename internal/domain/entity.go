package domain

import (
	"fmt"
	"strings"
	"time"
)

// Entity is a business object loaded from one of the registered kind repositories.
// Only the attributes needed to render it in a chain are carried.
type Entity struct {
	Ref        EntityRef
	Attributes map[string]any
	CreatedAt  *time.Time

	// DisplayName is filled by the tracker from the kind's DisplayNameRule.
	DisplayName string
}

// Attr returns the trimmed string form of an attribute, or "" when absent or blank.
func (e *Entity) Attr(field string) string {
	if e == nil || e.Attributes == nil {
		return ""
	}
	v, ok := e.Attributes[field]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case *string:
		if s == nil {
			return ""
		}
		return strings.TrimSpace(*s)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// DisplayNameRule is the ordered list of candidate fields used to name an entity
// of one kind. FirstNameField/LastNameField, when set, compose a full name that
// is tried after the candidates.
type DisplayNameRule struct {
	Fields         []string
	FirstNameField string
	LastNameField  string
}

// DefaultDisplayNameRule follows the CRM-wide convention name, nom, title.
func DefaultDisplayNameRule() DisplayNameRule {
	return DisplayNameRule{Fields: []string{"name", "nom", "title"}}
}

// DisplayName renders e according to the rule, falling back to "ID: {id}".
func (r DisplayNameRule) DisplayName(e *Entity) string {
	for _, f := range r.Fields {
		if v := e.Attr(f); v != "" {
			return v
		}
	}

	if r.FirstNameField != "" || r.LastNameField != "" {
		full := strings.TrimSpace(e.Attr(r.FirstNameField) + " " + e.Attr(r.LastNameField))
		if full != "" {
			return full
		}
	}

	return FallbackDisplayName(e.Ref.ID)
}

// Columns returns every attribute column the rule reads, without duplicates.
func (r DisplayNameRule) Columns() []string {
	seen := make(map[string]struct{}, len(r.Fields)+2)
	var cols []string
	add := func(c string) {
		if c == "" {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		cols = append(cols, c)
	}
	for _, f := range r.Fields {
		add(f)
	}
	add(r.FirstNameField)
	add(r.LastNameField)
	return cols
}

// FallbackDisplayName is used when an entity carries no usable name attribute.
func FallbackDisplayName(id int64) string {
	return fmt.Sprintf("ID: %d", id)
}
