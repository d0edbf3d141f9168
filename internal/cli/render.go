package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/heartmarshall/crm-lineage/internal/domain"
	"github.com/heartmarshall/crm-lineage/internal/service/lineage"
)

type format string

const (
	formatTable format = "table"
	formatJSON  format = "json"
)

func parseFormat(s string) (format, error) {
	switch f := format(strings.ToLower(strings.TrimSpace(s))); f {
	case formatTable, formatJSON:
		return f, nil
	case "":
		return formatTable, nil
	}
	return "", fmt.Errorf("%w: unknown output format %q (table|json)", domain.ErrInvalidArgument, s)
}

// printer writes command results as a table or as indented JSON.
type printer struct {
	w      io.Writer
	format format
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) table(header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	for _, row := range rows {
		t.AppendRow(row)
	}
	t.Render()
}

// ---------------------------------------------------------------------------
// Conversion records
// ---------------------------------------------------------------------------

var recordHeader = table.Row{"ID", "Source", "Target", "Converted By", "Converted At"}

func recordRow(rec domain.ConversionRecord) table.Row {
	by := "-"
	if rec.ConvertedBy != nil {
		by = domain.UserReference(*rec.ConvertedBy)
	}
	return table.Row{rec.ID.String(), rec.Source().String(), rec.Target().String(), by, formatTime(&rec.CreatedAt)}
}

func (p *printer) records(recs []domain.ConversionRecord) error {
	if p.format == formatJSON {
		if recs == nil {
			recs = []domain.ConversionRecord{}
		}
		return p.json(recs)
	}

	rows := make([]table.Row, len(recs))
	for i, rec := range recs {
		rows[i] = recordRow(rec)
	}
	p.table(recordHeader, rows)
	return nil
}

func (p *printer) record(rec domain.ConversionRecord) error {
	if p.format == formatJSON {
		return p.json(rec)
	}
	p.table(recordHeader, []table.Row{recordRow(rec)})
	return nil
}

// ---------------------------------------------------------------------------
// Chains
// ---------------------------------------------------------------------------

func (p *printer) chain(c domain.LineageChain) error {
	if p.format == formatJSON {
		if c.Nodes == nil {
			c.Nodes = []domain.LineageNode{}
		}
		return p.json(c)
	}

	rows := make([]table.Row, len(c.Nodes))
	for i, n := range c.Nodes {
		rows[i] = table.Row{
			i + 1,
			n.Ref().String(),
			n.DisplayName,
			formatTime(n.CreatedAt),
			formatTime(n.ConvertedAt),
			deref(n.ConvertedBy),
		}
	}
	p.table(table.Row{"#", "Entity", "Name", "Created At", "Converted At", "Converted By"}, rows)

	if c.Truncated != domain.TruncateNone {
		fmt.Fprintf(p.w, "(truncated: %s)\n", c.Truncated)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Entities and answers
// ---------------------------------------------------------------------------

type entityView struct {
	Type        domain.EntityType `json:"type"`
	ID          int64             `json:"id"`
	DisplayName string            `json:"display_name"`
	CreatedAt   *time.Time        `json:"created_at,omitempty"`
	Attributes  map[string]any    `json:"attributes,omitempty"`
}

func (p *printer) entity(e *domain.Entity) error {
	if p.format == formatJSON {
		return p.json(entityView{
			Type:        e.Ref.Type,
			ID:          e.Ref.ID,
			DisplayName: e.DisplayName,
			CreatedAt:   e.CreatedAt,
			Attributes:  e.Attributes,
		})
	}

	rows := []table.Row{
		{"entity", e.Ref.String()},
		{"display_name", e.DisplayName},
		{"created_at", formatTime(e.CreatedAt)},
	}
	keys := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		rows = append(rows, table.Row{k, e.Attr(k)})
	}
	p.table(table.Row{"Field", "Value"}, rows)
	return nil
}

func (p *printer) answer(v bool) error {
	if p.format == formatJSON {
		return p.json(struct {
			Result bool `json:"result"`
		}{v})
	}
	_, err := fmt.Fprintln(p.w, strconv.FormatBool(v))
	return err
}

func (p *printer) history(entries []lineage.HistoryEntry) error {
	if p.format == formatJSON {
		if entries == nil {
			entries = []lineage.HistoryEntry{}
		}
		return p.json(entries)
	}

	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			e.Direction.String(),
			e.Record.Source().String(),
			e.Record.Target().String(),
			deref(e.ConvertedBy),
			formatTime(&e.Record.CreatedAt),
		}
	}
	p.table(table.Row{"Direction", "Source", "Target", "Converted By", "Converted At"}, rows)
	return nil
}

func (p *printer) types(types []domain.EntityType) error {
	if p.format == formatJSON {
		if types == nil {
			types = []domain.EntityType{}
		}
		return p.json(types)
	}

	rows := make([]table.Row, len(types))
	for i, t := range types {
		rows[i] = table.Row{t.String()}
	}
	p.table(table.Row{"Type"}, rows)
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
