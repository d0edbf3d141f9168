package lineage

import (
	"strings"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

// RecordConversionInput holds the parameters for recording a conversion.
type RecordConversionInput struct {
	SourceType domain.EntityType
	SourceID   int64
	TargetType domain.EntityType
	TargetID   int64
	// ConvertedBy is the acting user. Nil means the user found in the
	// context, if any.
	ConvertedBy *int64
}

// Validate checks all fields and collects all errors.
func (i RecordConversionInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(string(i.SourceType)) == "" {
		errs = append(errs, domain.FieldError{Field: "source_type", Message: "required"})
	}
	if i.SourceID <= 0 {
		errs = append(errs, domain.FieldError{Field: "source_id", Message: "must be positive"})
	}
	if strings.TrimSpace(string(i.TargetType)) == "" {
		errs = append(errs, domain.FieldError{Field: "target_type", Message: "required"})
	}
	if i.TargetID <= 0 {
		errs = append(errs, domain.FieldError{Field: "target_id", Message: "must be positive"})
	}
	if i.ConvertedBy != nil && *i.ConvertedBy <= 0 {
		errs = append(errs, domain.FieldError{Field: "converted_by", Message: "must be positive"})
	}
	if len(errs) == 0 && i.SourceType.Normalize() == i.TargetType.Normalize() && i.SourceID == i.TargetID {
		errs = append(errs, domain.FieldError{Field: "target_id", Message: "must differ from source"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListConversionsInput selects the conversion history of one entity.
type ListConversionsInput struct {
	Entity domain.EntityRef
	// Direction restricts the history to one side. Nil means both.
	Direction *domain.Direction
	// OtherType narrows on the opposite endpoint's kind; requires Direction.
	OtherType domain.EntityType
	// Limit caps the number of records. Zero means all.
	Limit int
}

// Validate checks all fields and collects all errors.
func (i ListConversionsInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(string(i.Entity.Type)) == "" {
		errs = append(errs, domain.FieldError{Field: "entity_type", Message: "required"})
	}
	if i.Entity.ID <= 0 {
		errs = append(errs, domain.FieldError{Field: "entity_id", Message: "must be positive"})
	}
	if i.OtherType != "" && i.Direction == nil {
		errs = append(errs, domain.FieldError{Field: "other_type", Message: "requires a direction"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
