package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntityType is the tag naming a kind of business entity ("invite", "lead", ...).
type EntityType string

func (t EntityType) String() string { return string(t) }

// Normalize lowercases and trims the tag.
func (t EntityType) Normalize() EntityType {
	return EntityType(strings.ToLower(strings.TrimSpace(string(t))))
}

// Pipeline kinds known out of the box. Deployments may register more.
const (
	EntityTypeInvite       EntityType = "invite"
	EntityTypeLead         EntityType = "lead"
	EntityTypeInvestisseur EntityType = "investisseur"
	EntityTypeProjet       EntityType = "projet"
)

// EntityRef identifies an entity across all kinds.
type EntityRef struct {
	Type EntityType
	ID   int64
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s#%d", r.Type, r.ID)
}

// ConversionRecord is one persisted edge: Source was converted into Target.
// Records are append-only.
type ConversionRecord struct {
	ID          uuid.UUID  `json:"id"`
	SourceType  EntityType `json:"source_type"`
	SourceID    int64      `json:"source_id"`
	TargetType  EntityType `json:"target_type"`
	TargetID    int64      `json:"target_id"`
	ConvertedBy *int64     `json:"converted_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Source returns the reference the edge starts from.
func (c ConversionRecord) Source() EntityRef {
	return EntityRef{Type: c.SourceType, ID: c.SourceID}
}

// Target returns the reference the edge points to.
func (c ConversionRecord) Target() EntityRef {
	return EntityRef{Type: c.TargetType, ID: c.TargetID}
}

// ConversionFilter selects conversion records by one endpoint and, optionally,
// the kind of the opposite endpoint.
type ConversionFilter struct {
	// Direction says which side of the edge Entity sits on.
	Direction Direction
	Entity    EntityRef
	// OtherType narrows on the opposite endpoint's kind. Empty means any kind.
	OtherType EntityType
}

// Direction selects the endpoint a ConversionFilter matches on.
type Direction int

const (
	// Outgoing matches records whose source is the entity.
	Outgoing Direction = iota
	// Incoming matches records whose target is the entity.
	Incoming
)

func (d Direction) String() string {
	if d == Incoming {
		return "incoming"
	}
	return "outgoing"
}

// MarshalText renders the direction as "incoming" or "outgoing".
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ParseDirection accepts "in"/"incoming" and "out"/"outgoing".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "incoming":
		return Incoming, nil
	case "out", "outgoing":
		return Outgoing, nil
	}
	return Outgoing, fmt.Errorf("%w: unknown direction %q", ErrInvalidArgument, s)
}

// LineageNode is one entity in a reconstructed chain. ConvertedAt and ConvertedBy
// describe the conversion that produced this node; they are nil on a root.
type LineageNode struct {
	Type        EntityType `json:"type"`
	ID          int64      `json:"id"`
	DisplayName string     `json:"display_name"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	ConvertedAt *time.Time `json:"converted_at,omitempty"`
	ConvertedBy *string    `json:"converted_by,omitempty"`
}

// Ref returns the node's entity reference.
func (n LineageNode) Ref() EntityRef {
	return EntityRef{Type: n.Type, ID: n.ID}
}

// TruncateReason explains why a chain walk stopped before reaching a natural end.
type TruncateReason string

const (
	TruncateNone              TruncateReason = ""
	TruncateDanglingReference TruncateReason = "dangling-reference"
	TruncateCycle             TruncateReason = "cycle"
	TruncateDepth             TruncateReason = "depth"
)

// LineageChain is a chronologically ordered chain (earliest first).
type LineageChain struct {
	Nodes     []LineageNode  `json:"nodes"`
	Truncated TruncateReason `json:"truncated,omitempty"`
}

// Refs returns the references of all nodes in order.
func (c LineageChain) Refs() []EntityRef {
	refs := make([]EntityRef, len(c.Nodes))
	for i, n := range c.Nodes {
		refs[i] = n.Ref()
	}
	return refs
}
