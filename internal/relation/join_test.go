package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_BelongsTo(t *testing.T) {
	spec, err := Plan(Descriptor{
		Name:         "author",
		Kind:         KindBelongsTo,
		RelatedTable: "users",
		ForeignKey:   "author_id",
		OwnerKey:     "id",
	}, "posts")
	require.NoError(t, err)

	assert.Equal(t, "posts", spec.ParentTable)
	assert.Equal(t, "users", spec.RelatedTable)
	assert.Equal(t, "`posts`.`author_id`", spec.ParentKey)
	assert.Equal(t, "`users`.`id`", spec.RelatedKey)
	assert.Empty(t, spec.FromExpr)
	assert.Equal(t, "`users` ON `posts`.`author_id` = `users`.`id`", spec.JoinClause())
	assert.Equal(t, "`posts`.*", spec.ParentSelect())
}

func TestPlan_HasOne(t *testing.T) {
	spec, err := Plan(Descriptor{
		Name:         "profile",
		Kind:         KindHasOne,
		RelatedTable: "profiles",
		ForeignKey:   "user_id",
		ParentKey:    "id",
	}, "users")
	require.NoError(t, err)

	assert.Equal(t, "`profiles`.`user_id`", spec.RelatedKey)
	assert.Equal(t, "`users`.`id`", spec.ParentKey)
}

func TestPlan_DefaultKeys(t *testing.T) {
	t.Run("hasOne foreign key from singular parent table", func(t *testing.T) {
		spec, err := Plan(HasOne("profile", "profiles"), "users")
		require.NoError(t, err)
		assert.Equal(t, "`profiles`.`user_id`", spec.RelatedKey)
		assert.Equal(t, "`users`.`id`", spec.ParentKey)
	})

	t.Run("belongsTo foreign key from relation name", func(t *testing.T) {
		spec, err := Plan(BelongsTo("author", "users"), "posts")
		require.NoError(t, err)
		assert.Equal(t, "`posts`.`author_id`", spec.ParentKey)
		assert.Equal(t, "`users`.`id`", spec.RelatedKey)
	})
}

func TestPlan_SelfJoinAliasesParent(t *testing.T) {
	spec, err := Plan(Descriptor{
		Name:         "parent",
		Kind:         KindBelongsTo,
		RelatedTable: "categories",
		ForeignKey:   "parent_id",
		OwnerKey:     "id",
	}, "categories")
	require.NoError(t, err)

	assert.Equal(t, "parent_categories", spec.ParentTable)
	assert.Equal(t, "`categories` AS `parent_categories`", spec.FromExpr)
	assert.Equal(t, "`parent_categories`.`parent_id`", spec.ParentKey)
	assert.Equal(t, "`categories`.`id`", spec.RelatedKey)
	assert.Equal(t, "`parent_categories`.*", spec.ParentSelect())
}

func TestPlan_SelfJoinHasOneKeyNamesUseOriginalTable(t *testing.T) {
	// Key name derivation must see "categories", not the alias, while the
	// parent-side qualification uses the alias.
	spec, err := Plan(HasOne("child", "categories"), "categories")
	require.NoError(t, err)

	assert.Equal(t, "`categories`.`category_id`", spec.RelatedKey)
	assert.Equal(t, "`parent_categories`.`id`", spec.ParentKey)
}

func TestPlan_UnsupportedKind(t *testing.T) {
	_, err := Plan(Descriptor{Name: "tags", Kind: Kind(42), RelatedTable: "tags"}, "posts")
	require.Error(t, err)

	var relErr *Error
	require.ErrorAs(t, err, &relErr)
	assert.Equal(t, "tags", relErr.Relation)
	assert.Equal(t, ReasonUnsupportedKind, relErr.Reason)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestPlan_ZeroKindUnsupported(t *testing.T) {
	_, err := Plan(Descriptor{Name: "broken", RelatedTable: "users"}, "posts")
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}
