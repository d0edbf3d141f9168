package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/crm-lineage/internal/config"
	"github.com/heartmarshall/crm-lineage/internal/domain"
)

func TestNewRegistry_DefaultKinds(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(nil, config.DefaultEntityKinds())
	require.NoError(t, err)

	assert.Equal(t,
		[]domain.EntityType{"investisseur", "invite", "lead", "projet"},
		registry.Types(),
	)

	invite, err := registry.Lookup("Invite")
	require.NoError(t, err)
	assert.Equal(t, "prenom", invite.Names.FirstNameField)
	assert.Equal(t, "nom", invite.Names.LastNameField)
	assert.Equal(t, []string{"name", "nom", "title"}, invite.Names.Fields)
}

func TestNewRegistry_EmptyRuleGetsDefault(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(nil, []config.EntityKindConfig{{Type: "contact", Table: "contacts"}})
	require.NoError(t, err)

	kind, err := registry.Lookup("contact")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDisplayNameRule(), kind.Names)
}

func TestNewRegistry_Duplicate(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry(nil, []config.EntityKindConfig{
		{Type: "lead", Table: "leads"},
		{Type: "LEAD", Table: "leads_archive"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestNewRegistry_UnknownLookup(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(nil, config.DefaultEntityKinds())
	require.NoError(t, err)

	_, err = registry.Lookup("prospect")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestBuildVersion(t *testing.T) {
	t.Parallel()

	assert.Contains(t, BuildVersion(), Version)
	assert.Contains(t, BuildVersion(), "commit "+Commit)
}
