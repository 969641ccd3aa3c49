package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForeignKeyName(t *testing.T) {
	tests := []struct {
		table    string
		expected string
	}{
		{table: "categories", expected: "category_id"},
		{table: "users", expected: "user_id"},
		{table: "people", expected: "person_id"},
		{table: "profile", expected: "profile_id"},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.expected, ForeignKeyName(tt.table))
		})
	}
}

func TestRelationForeignKeyName(t *testing.T) {
	assert.Equal(t, "author_id", RelationForeignKeyName("author"))
	assert.Equal(t, "parent_category_id", RelationForeignKeyName("parentCategory"))
}

func TestSingularize(t *testing.T) {
	assert.Equal(t, "category", Singularize("categories"))
	assert.Equal(t, "person", Singularize("people"))
}
