package config

import (
	"fmt"
	"regexp"
	"strings"
)

const maxLineageHops = 1000

var identifierRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
// An empty entity list is replaced by DefaultEntityKinds.
func (c *Config) Validate() error {
	if c.Lineage.MaxHops < 1 || c.Lineage.MaxHops > maxLineageHops {
		return fmt.Errorf("lineage.max_hops must be in [1, %d] (got %d)", maxLineageHops, c.Lineage.MaxHops)
	}
	if c.Lineage.QueryTimeout <= 0 {
		return fmt.Errorf("lineage.query_timeout must be > 0 (got %v)", c.Lineage.QueryTimeout)
	}

	if len(c.Entities) == 0 {
		c.Entities = DefaultEntityKinds()
	}

	seen := make(map[string]struct{}, len(c.Entities))
	for i := range c.Entities {
		k := &c.Entities[i]
		if err := k.validate(); err != nil {
			return fmt.Errorf("entities[%d]: %w", i, err)
		}
		if _, dup := seen[k.Type]; dup {
			return fmt.Errorf("entities[%d]: duplicate type %q", i, k.Type)
		}
		seen[k.Type] = struct{}{}
	}

	if !identifierRe.MatchString(c.Users.Table) {
		return fmt.Errorf("users.table %q is not a valid identifier", c.Users.Table)
	}

	if c.Events.Enabled() && strings.TrimSpace(c.Events.Subject) == "" {
		return fmt.Errorf("events.subject is required when events.nats_url is set")
	}

	return nil
}

func (k *EntityKindConfig) validate() error {
	k.Type = strings.ToLower(strings.TrimSpace(k.Type))
	if k.Type == "" {
		return fmt.Errorf("type is required")
	}
	if !identifierRe.MatchString(k.Table) {
		return fmt.Errorf("table %q is not a valid identifier", k.Table)
	}

	for _, f := range append(append([]string{}, k.NameFields...), k.FirstNameField, k.LastNameField) {
		if f != "" && !identifierRe.MatchString(f) {
			return fmt.Errorf("field %q is not a valid identifier", f)
		}
	}

	if len(k.NameFields) == 0 && k.FirstNameField == "" && k.LastNameField == "" {
		k.NameFields = []string{"name", "nom", "title"}
	}

	return nil
}
