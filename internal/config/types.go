package config

import (
	"fmt"
	"time"

	"column-sortable/internal/logging"
	"column-sortable/internal/relation"
	"column-sortable/internal/sortbuilder"
)

// Config holds the application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  logging.Config `mapstructure:"logging"`
	Sorting  SortingConfig  `mapstructure:"sorting"`
	// Listings is decoded separately from the raw config tree; see Load.
	Listings map[string]ListingConfig `mapstructure:"-"`
}

// SortingConfig controls how sort requests are translated into queries.
type SortingConfig struct {
	// AllowRequestModification merges a resolved default sort back into the
	// request parameters.
	AllowRequestModification bool `mapstructure:"allow_request_modification"`
	// DefaultFirstColumn sorts by the first declared sortable column when
	// the request carries no sort instruction.
	DefaultFirstColumn bool `mapstructure:"default_first_column"`
	// DefaultDirection is "asc" or "desc".
	DefaultDirection string `mapstructure:"default_direction"`
	// JoinType is "leftJoin", "innerJoin" or "rightJoin".
	JoinType string `mapstructure:"join_type"`
	// RelationColumnSeparator divides relation from column in sort tokens;
	// a single non-alphanumeric character.
	RelationColumnSeparator string `mapstructure:"relation_column_separator"`
}

// Options converts the sorting section into builder options.
func (s SortingConfig) Options() sortbuilder.Options {
	return sortbuilder.Options{
		DefaultDirection:         s.DefaultDirection,
		DefaultFirstColumn:       s.DefaultFirstColumn,
		AllowRequestModification: s.AllowRequestModification,
		JoinType:                 s.JoinType,
		Separator:                s.RelationColumnSeparator,
	}
}

// ListingConfig declares one sortable listing exposed by the server.
type ListingConfig struct {
	// Table is the backing table name.
	Table string `mapstructure:"table"`
	// Connection names the database connection; empty means "default".
	Connection string `mapstructure:"connection"`
	// Sortable is the column whitelist; declaration order matters because
	// the first entry seeds default sorting.
	Sortable []string `mapstructure:"sortable"`
	// SortableAs lists alias names ordered by without schema validation.
	SortableAs []string `mapstructure:"sortable_as"`
	// SortTable overrides the name matched against the request's table
	// filter. Defaults to Table.
	SortTable string `mapstructure:"sort_table"`
	// DefaultDirection overrides sorting.default_direction for this listing.
	DefaultDirection string `mapstructure:"default_direction"`
	// Relations declares one-to-one relations sortable through a join.
	Relations map[string]RelationConfig `mapstructure:"relations"`
}

// RelationConfig declares a sortable relation on a listing.
type RelationConfig struct {
	// Kind is "has_one" or "belongs_to".
	Kind string `mapstructure:"kind"`
	// Table is the related table name.
	Table string `mapstructure:"table"`
	// Key columns; conventional names are derived when left empty.
	ForeignKey string `mapstructure:"foreign_key"`
	OwnerKey   string `mapstructure:"owner_key"`
	ParentKey  string `mapstructure:"parent_key"`
	// Sortable whitelists columns on the related table.
	Sortable []string `mapstructure:"sortable"`
	// SortableAs lists alias names on the related side.
	SortableAs []string `mapstructure:"sortable_as"`
}

// Relation kind strings accepted in configuration.
const (
	RelationKindHasOne    = "has_one"
	RelationKindBelongsTo = "belongs_to"
)

// Descriptor builds the relation descriptor for this configuration.
func (r RelationConfig) Descriptor(name string) (relation.Descriptor, error) {
	desc := relation.Descriptor{
		Name:         name,
		RelatedTable: r.Table,
		ForeignKey:   r.ForeignKey,
		OwnerKey:     r.OwnerKey,
		ParentKey:    r.ParentKey,
	}
	switch r.Kind {
	case RelationKindHasOne:
		desc.Kind = relation.KindHasOne
	case RelationKindBelongsTo:
		desc.Kind = relation.KindBelongsTo
	default:
		return relation.Descriptor{}, fmt.Errorf("relation %q has unsupported kind %q", name, r.Kind)
	}
	return desc, nil
}

// PoolConfig holds connection pool parameters.
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open"`
	MaxIdle     int           `mapstructure:"max_idle"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DatabaseConfig holds database connection parameters.
type DatabaseConfig struct {
	// ConnectionString is a complete go-sql-driver/mysql Data Source Name.
	// When set, overrides the discrete fields below.
	// Configured via "dsn" in YAML or CSORT_DATABASE_DSN.
	ConnectionString string `mapstructure:"dsn"`

	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	PasswordFile   string `mapstructure:"password_file"`
	PasswordPrompt bool   `mapstructure:"password_prompt"`
	Database       string `mapstructure:"database"`

	Pool PoolConfig `mapstructure:"pool"`
}

// DSN returns the effective Data Source Name for the mysql driver.
func (d DatabaseConfig) DSN() string {
	if d.ConnectionString != "" {
		return d.ConnectionString
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		d.User, d.Password, d.Host, d.Port, d.Database)
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxRows caps the number of rows a listing response returns.
	MaxRows int `mapstructure:"max_rows"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
