package config

import (
	"fmt"
	"strings"

	"column-sortable/internal/relation"
	"column-sortable/internal/sortbuilder"
	"column-sortable/internal/sortparams"
)

// ValidationError represents a configuration validation error with context.
type ValidationError struct {
	Field   string
	Message string
	Hint    string
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", e.Field, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
	Hint    string
}

// ValidationResult contains the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns a combined error message if there are validation errors.
func (r *ValidationResult) Error() string {
	if !r.HasErrors() {
		return ""
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func (r *ValidationResult) addError(field, message, hint string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message, Hint: hint})
}

func (r *ValidationResult) addWarning(field, message, hint string) {
	r.Warnings = append(r.Warnings, ValidationWarning{Field: field, Message: message, Hint: hint})
}

// Validate checks the configuration and returns both fatal errors and
// non-fatal warnings.
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}

	c.Sorting.validate(result)
	c.Database.validate(result)
	c.Server.validate(result)
	validateListings(result, c.Listings)

	return result
}

func (s *SortingConfig) validate(result *ValidationResult) {
	switch s.DefaultDirection {
	case sortparams.DirectionAsc, sortparams.DirectionDesc:
	default:
		result.addError("sorting.default_direction",
			fmt.Sprintf("invalid direction %q", s.DefaultDirection),
			`use "asc" or "desc"`)
	}

	switch s.JoinType {
	case sortbuilder.JoinTypeLeft, sortbuilder.JoinTypeInner, sortbuilder.JoinTypeRight:
	default:
		result.addError("sorting.join_type",
			fmt.Sprintf("invalid join type %q", s.JoinType),
			`use "leftJoin", "innerJoin" or "rightJoin"`)
	}

	if !relation.ValidSeparator(s.RelationColumnSeparator) {
		result.addError("sorting.relation_column_separator",
			fmt.Sprintf("invalid separator %q", s.RelationColumnSeparator),
			"use a single non-alphanumeric character such as | or .")
	}
}

func (d *DatabaseConfig) validate(result *ValidationResult) {
	if d.ConnectionString != "" {
		return
	}
	if d.Port < 1 || d.Port > 65535 {
		result.addError("database.port",
			fmt.Sprintf("port %d out of range", d.Port), "use 1-65535")
	}
	if d.Host == "" {
		result.addError("database.host", "host is required", "set database.host or database.dsn")
	}
	if d.Database == "" {
		result.addWarning("database.database",
			"no database selected; schema checks will fail",
			"set database.database or declare sortable whitelists on every listing")
	}
}

func (s *ServerConfig) validate(result *ValidationResult) {
	if s.Port < 1 || s.Port > 65535 {
		result.addError("server.port",
			fmt.Sprintf("port %d out of range", s.Port), "use 1-65535")
	}
	if s.MaxRows < 1 {
		result.addError("server.max_rows",
			fmt.Sprintf("max_rows %d must be positive", s.MaxRows), "")
	}
}

func validateListings(result *ValidationResult, listings map[string]ListingConfig) {
	for name, listing := range listings {
		field := "listings." + name
		if listing.Table == "" {
			result.addError(field+".table", "table is required", "")
		}
		switch listing.DefaultDirection {
		case "", sortparams.DirectionAsc, sortparams.DirectionDesc:
		default:
			result.addError(field+".default_direction",
				fmt.Sprintf("invalid direction %q", listing.DefaultDirection),
				`use "asc" or "desc"`)
		}
		if len(listing.Sortable) == 0 && len(listing.SortableAs) == 0 {
			result.addWarning(field,
				"no sortable columns declared; every column check hits the database schema",
				"declare a sortable whitelist")
		}
		for relName, rel := range listing.Relations {
			relField := field + ".relations." + relName
			if rel.Table == "" {
				result.addError(relField+".table", "table is required", "")
			}
			if _, err := rel.Descriptor(relName); err != nil {
				result.addError(relField+".kind",
					fmt.Sprintf("unsupported kind %q", rel.Kind),
					`use "has_one" or "belongs_to"`)
			}
		}
	}
}
