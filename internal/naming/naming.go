// Package naming derives conventional database names for relation metadata.
// It wraps the inflection library so inflection rules stay in one place.
package naming

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// Singularize converts a plural word to its singular form.
func Singularize(word string) string {
	return inflection.Singular(word)
}

// ForeignKeyName returns the conventional foreign key column referencing the
// given table.
// Example: "categories" -> "category_id".
func ForeignKeyName(table string) string {
	return Singularize(table) + "_id"
}

// RelationForeignKeyName returns the conventional foreign key column for a
// relation name on the owning side.
// Example: "author" -> "author_id", "parentCategory" -> "parent_category_id".
func RelationForeignKeyName(relation string) string {
	return toSnakeCase(relation) + "_id"
}

func toSnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
