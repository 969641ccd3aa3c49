// Package relation models the one-to-one relations a listing can sort
// through: reference parsing for relation-qualified sort tokens, tagged
// relation descriptors, and join planning against the parent table.
package relation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"column-sortable/internal/naming"
)

// DefaultSeparator divides the relation name from the column name in a
// relation-qualified sort token, e.g. "author|name".
const DefaultSeparator = "|"

// Kind tags the supported one-to-one relation shapes. The two differ in
// which side owns the foreign key.
type Kind int

const (
	// KindHasOne: the related table holds a foreign key pointing at the
	// parent table.
	KindHasOne Kind = iota + 1
	// KindBelongsTo: the parent table holds a foreign key pointing at the
	// related table.
	KindBelongsTo
)

// String returns the kind name used in logs and error messages.
func (k Kind) String() string {
	switch k {
	case KindHasOne:
		return "hasOne"
	case KindBelongsTo:
		return "belongsTo"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Reference is a split relation-qualified sort token.
type Reference struct {
	Relation string
	Column   string
}

// ValidSeparator reports whether sep can divide relation tokens: exactly one
// rune, neither a letter nor a digit.
func ValidSeparator(sep string) bool {
	runes := []rune(sep)
	if len(runes) != 1 {
		return false
	}
	return !unicode.IsLetter(runes[0]) && !unicode.IsDigit(runes[0])
}

// SplitReference splits a sort token of the form "<relation><sep><column>".
// It returns not-ok for plain columns (no separator) and for malformed
// tokens with an empty relation or column side; malformed tokens then fall
// through to the whitelist check, which rejects them as unknown columns.
func SplitReference(token, sep string) (Reference, bool) {
	if !ValidSeparator(sep) {
		sep = DefaultSeparator
	}
	rel, col, found := strings.Cut(token, sep)
	if !found || rel == "" || col == "" {
		return Reference{}, false
	}
	return Reference{Relation: rel, Column: col}, true
}

// Descriptor describes a relation declared on a listing model. Key fields
// left empty are filled with conventional names during join planning.
type Descriptor struct {
	Name         string
	Kind         Kind
	RelatedTable string
	// ForeignKey lives on the related table for KindHasOne and on the
	// parent table for KindBelongsTo.
	ForeignKey string
	// OwnerKey is the referenced column on the related table (KindBelongsTo).
	OwnerKey string
	// ParentKey is the referenced column on the parent table (KindHasOne).
	ParentKey string
}

// HasOne returns a descriptor for a relation whose related table carries the
// foreign key. The foreign key defaults to "<singular parent table>_id" and
// the parent key to "id" when left unset.
func HasOne(name, relatedTable string) Descriptor {
	return Descriptor{Name: name, Kind: KindHasOne, RelatedTable: relatedTable}
}

// BelongsTo returns a descriptor for a relation whose parent table carries
// the foreign key. The foreign key defaults to "<relation name>_id" and the
// owner key to "id" when left unset.
func BelongsTo(name, relatedTable string) Descriptor {
	return Descriptor{Name: name, Kind: KindBelongsTo, RelatedTable: relatedTable}
}

// Reason codes carried by Error.
const (
	ReasonUnknownRelation = "unknown_relation"
	ReasonUnsupportedKind = "unsupported_kind"
)

// Sentinel errors for the relation taxonomy.
var (
	ErrUnknownRelation = errors.New("relation is not declared on the model")
	ErrUnsupportedKind = errors.New("relation kind does not support sorting")
)

// Error reports a structural problem with a relation declaration. Unlike
// malformed user input, these surface to the caller: they indicate a mistake
// in the sortable configuration.
type Error struct {
	Relation string
	Reason   string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("relation %q: %s: %v", e.Relation, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewUnknownError reports a relation name with no declaration.
func NewUnknownError(name string) *Error {
	return &Error{Relation: name, Reason: ReasonUnknownRelation, Err: ErrUnknownRelation}
}

func newUnsupportedKindError(d Descriptor) *Error {
	return &Error{
		Relation: d.Name,
		Reason:   ReasonUnsupportedKind,
		Err:      fmt.Errorf("%w: %s", ErrUnsupportedKind, d.Kind),
	}
}

func (d Descriptor) foreignKey(parentTable string) string {
	if d.ForeignKey != "" {
		return d.ForeignKey
	}
	switch d.Kind {
	case KindHasOne:
		return naming.ForeignKeyName(parentTable)
	default:
		return naming.RelationForeignKeyName(d.Name)
	}
}

func (d Descriptor) ownerKey() string {
	if d.OwnerKey != "" {
		return d.OwnerKey
	}
	return "id"
}

func (d Descriptor) parentKey() string {
	if d.ParentKey != "" {
		return d.ParentKey
	}
	return "id"
}
