package relation

import (
	"column-sortable/internal/sqlutil"
)

// SelfJoinAliasPrefix prefixes the parent table alias when a relation joins
// a table to itself.
const SelfJoinAliasPrefix = "parent_"

// JoinSpec is the planned join between the parent table and a related table.
// It is derived once per sort invocation, applied to the query, and
// discarded.
type JoinSpec struct {
	// ParentTable is the parent side of the join; for a self-join this is
	// the alias, not the original table name.
	ParentTable  string
	RelatedTable string
	// ParentKey and RelatedKey are fully qualified, quoted column
	// references joined with "=".
	ParentKey  string
	RelatedKey string
	// FromExpr, when non-empty, must replace the query's FROM clause to
	// install the self-join alias.
	FromExpr string
}

// Plan computes the join between parentTable and the relation's related
// table. Only KindHasOne and KindBelongsTo are supported; any other kind
// returns an *Error wrapping ErrUnsupportedKind.
//
// When the related table equals the parent table the parent is aliased as
// "parent_<table>" and FromExpr carries the aliased FROM expression, so the
// join is never ambiguous.
func Plan(d Descriptor, parentTable string) (JoinSpec, error) {
	spec := JoinSpec{
		ParentTable:  parentTable,
		RelatedTable: d.RelatedTable,
	}

	// Key names derive from the original table names; only qualification
	// uses the alias.
	foreignKey := d.foreignKey(parentTable)

	if d.RelatedTable == parentTable {
		spec.ParentTable = SelfJoinAliasPrefix + parentTable
		spec.FromExpr = sqlutil.QuoteIdentifier(parentTable) + " AS " + sqlutil.QuoteIdentifier(spec.ParentTable)
	}

	switch d.Kind {
	case KindHasOne:
		spec.RelatedKey = sqlutil.Qualify(d.RelatedTable, foreignKey)
		spec.ParentKey = sqlutil.Qualify(spec.ParentTable, d.parentKey())
	case KindBelongsTo:
		spec.RelatedKey = sqlutil.Qualify(d.RelatedTable, d.ownerKey())
		spec.ParentKey = sqlutil.Qualify(spec.ParentTable, foreignKey)
	default:
		return JoinSpec{}, newUnsupportedKindError(d)
	}

	return spec, nil
}

// JoinClause renders the squirrel join argument:
// `related` ON parentKey = relatedKey.
func (j JoinSpec) JoinClause() string {
	return sqlutil.QuoteIdentifier(j.RelatedTable) + " ON " + j.ParentKey + " = " + j.RelatedKey
}

// ParentSelect returns the parent-star projection used to avoid column
// collisions from the joined table.
func (j JoinSpec) ParentSelect() string {
	return sqlutil.QuoteIdentifier(j.ParentTable) + ".*"
}
