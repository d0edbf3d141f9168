package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig     `yaml:"database"`
	Log      LogConfig          `yaml:"log"`
	Lineage  LineageConfig      `yaml:"lineage"`
	Entities []EntityKindConfig `yaml:"entities"`
	Users    UsersConfig        `yaml:"users"`
	Events   EventsConfig       `yaml:"events"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN              string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns         int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns         int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ApplicationName  string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"crm-lineage"`
	StatementTimeout time.Duration `yaml:"statement_timeout"  env:"DATABASE_STATEMENT_TIMEOUT"  env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LineageConfig holds lineage walk limits.
type LineageConfig struct {
	MaxHops      int           `yaml:"max_hops"      env:"LINEAGE_MAX_HOPS"      env-default:"50"`
	QueryTimeout time.Duration `yaml:"query_timeout" env:"LINEAGE_QUERY_TIMEOUT" env-default:"5s"`
}

// EntityKindConfig registers one pipeline entity kind and the table backing it.
type EntityKindConfig struct {
	Type           string   `yaml:"type"`
	Table          string   `yaml:"table"`
	NameFields     []string `yaml:"name_fields"`
	FirstNameField string   `yaml:"first_name_field"`
	LastNameField  string   `yaml:"last_name_field"`
}

// UsersConfig points at the table holding CRM operators.
type UsersConfig struct {
	Table string `yaml:"table" env:"USERS_TABLE" env-default:"users"`
}

// EventsConfig holds the optional NATS publication settings.
// An empty URL disables publishing.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url" env:"EVENTS_NATS_URL"`
	Subject string `yaml:"subject"  env:"EVENTS_SUBJECT"  env-default:"crm.lineage.converted"`
}

// Enabled reports whether conversion events should be published.
func (c EventsConfig) Enabled() bool {
	return c.NATSURL != ""
}

// DefaultEntityKinds returns the pipeline kinds used when the configuration
// lists none.
func DefaultEntityKinds() []EntityKindConfig {
	return []EntityKindConfig{
		{Type: "invite", Table: "invites", NameFields: []string{"name", "nom", "title"}, FirstNameField: "prenom", LastNameField: "nom"},
		{Type: "lead", Table: "leads", NameFields: []string{"name", "nom", "title"}},
		{Type: "investisseur", Table: "investisseurs", NameFields: []string{"name", "nom", "title"}, FirstNameField: "prenom", LastNameField: "nom"},
		{Type: "projet", Table: "projets", NameFields: []string{"name", "nom", "title"}},
	}
}
