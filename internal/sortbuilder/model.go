// Package sortbuilder turns validated sort requests into squirrel query
// mutations. It composes parameter parsing, relation resolution, join
// planning, and whitelist checks, and is the only package that decides how a
// sort instruction changes a query.
package sortbuilder

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"column-sortable/internal/relation"
)

// SortFunc is a custom per-column sort strategy. Its return value replaces
// the query wholesale, so a strategy can order by computed expressions or
// several columns at once.
type SortFunc func(q sq.SelectBuilder, direction string) sq.SelectBuilder

// Model is the minimal entity contract the sort pipeline consumes.
type Model interface {
	// Table returns the entity's table name.
	Table() string
	// Connection names the database connection used for schema checks.
	Connection() string
}

// ColumnLister declares the sortable column whitelist. A non-nil result is
// authoritative: schema introspection is skipped entirely, and declaration
// order matters because the first entry seeds default sorting. A nil result
// means "not declared" and defers to the column oracle.
type ColumnLister interface {
	SortableColumns() []string
}

// AliasLister declares sortable aliases: literal names ordered by without
// table qualification or schema validation, used for aggregate or aliased
// select expressions.
type AliasLister interface {
	SortableAliases() []string
}

// SorterProvider resolves custom sort strategies by column name. A found
// strategy fully overrides the default ordering logic.
type SorterProvider interface {
	Sorter(column string) (SortFunc, bool)
}

// Relation pairs a relation descriptor with the related model the sort
// context shifts to after joining.
type Relation struct {
	Descriptor relation.Descriptor
	Related    Model
}

// RelationProvider resolves declared relations by name.
type RelationProvider interface {
	Relation(name string) (Relation, bool)
}

// SortTableNamer overrides the name matched against the request's table
// filter. Without it the filter matches Model.Table().
type SortTableNamer interface {
	SortTableName() string
}

// ColumnOracle answers whether a table has a column on a named connection.
// It backs the whitelist fallback for models without a declared column list.
type ColumnOracle interface {
	HasColumn(ctx context.Context, connection, table, column string) (bool, error)
}
