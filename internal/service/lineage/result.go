package lineage

import (
	"github.com/heartmarshall/crm-lineage/internal/domain"
)

// HistoryEntry is one conversion record seen from the entity whose history
// was requested.
type HistoryEntry struct {
	Record domain.ConversionRecord `json:"record"`
	// Direction is Outgoing when the entity is the record's source.
	Direction domain.Direction `json:"direction"`
	// ConvertedBy is the acting user's display name, nil when unknown.
	ConvertedBy *string `json:"converted_by,omitempty"`
}
