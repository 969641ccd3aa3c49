package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"column-sortable/internal/relation"
	"column-sortable/internal/sortbuilder"
)

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "discrete fields",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Password: "password",
				Database: "shop",
			},
			expected: "root:password@tcp(localhost:3306)/shop?parseTime=true",
		},
		{
			name: "explicit dsn wins",
			config: DatabaseConfig{
				ConnectionString: "app:secret@tcp(db:3306)/shop",
				Host:             "ignored",
			},
			expected: "app:secret@tcp(db:3306)/shop",
		},
		{
			name: "empty password",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Database: "shop",
			},
			expected: "root:@tcp(localhost:3306)/shop?parseTime=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

// Note: Load() relies on global state (pflag.CommandLine), which is difficult
// to exercise in isolation without conflicts between tests; end-to-end
// loading is covered by the integration tests.

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Database: "shop",
		},
		Server: ServerConfig{Port: 8080, MaxRows: 500},
		Sorting: SortingConfig{
			AllowRequestModification: true,
			DefaultDirection:         "asc",
			JoinType:                 "leftJoin",
			RelationColumnSeparator:  "|",
		},
		Listings: map[string]ListingConfig{
			"products": {
				Table:    "products",
				Sortable: []string{"name", "price"},
				Relations: map[string]RelationConfig{
					"category": {Kind: "belongs_to", Table: "categories"},
				},
			},
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		result := validConfig().Validate()
		assert.False(t, result.HasErrors())
	})

	t.Run("invalid direction", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sorting.DefaultDirection = "sideways"
		result := cfg.Validate()
		assert.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "sorting.default_direction")
	})

	t.Run("invalid join type", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sorting.JoinType = "crossJoin"
		result := cfg.Validate()
		assert.Contains(t, result.Error(), "sorting.join_type")
	})

	t.Run("invalid separator", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sorting.RelationColumnSeparator = "ab"
		result := cfg.Validate()
		assert.Contains(t, result.Error(), "sorting.relation_column_separator")
	})

	t.Run("invalid database port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Port = 0
		result := cfg.Validate()
		assert.Contains(t, result.Error(), "database.port")
	})

	t.Run("dsn skips discrete database checks", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database = DatabaseConfig{ConnectionString: "root@tcp(db)/shop"}
		result := cfg.Validate()
		assert.False(t, result.HasErrors())
	})

	t.Run("listing without table", func(t *testing.T) {
		cfg := validConfig()
		cfg.Listings["broken"] = ListingConfig{Sortable: []string{"x"}}
		result := cfg.Validate()
		assert.Contains(t, result.Error(), "listings.broken.table")
	})

	t.Run("listing with bad default direction", func(t *testing.T) {
		cfg := validConfig()
		cfg.Listings["products"] = ListingConfig{
			Table:            "products",
			Sortable:         []string{"name"},
			DefaultDirection: "sideways",
		}
		result := cfg.Validate()
		assert.Contains(t, result.Error(), "listings.products.default_direction")
	})

	t.Run("relation with bad kind", func(t *testing.T) {
		cfg := validConfig()
		cfg.Listings["products"] = ListingConfig{
			Table: "products",
			Relations: map[string]RelationConfig{
				"tags": {Kind: "has_many", Table: "tags"},
			},
		}
		result := cfg.Validate()
		assert.Contains(t, result.Error(), "listings.products.relations.tags.kind")
	})

	t.Run("missing database name warns", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Database = ""
		result := cfg.Validate()
		assert.False(t, result.HasErrors())
		assert.NotEmpty(t, result.Warnings)
	})
}

func TestSortingConfig_Options(t *testing.T) {
	cfg := SortingConfig{
		AllowRequestModification: false,
		DefaultFirstColumn:       true,
		DefaultDirection:         "desc",
		JoinType:                 "innerJoin",
		RelationColumnSeparator:  ".",
	}

	opts := cfg.Options()
	assert.Equal(t, sortbuilder.Options{
		DefaultDirection:         "desc",
		DefaultFirstColumn:       true,
		AllowRequestModification: false,
		JoinType:                 "innerJoin",
		Separator:                ".",
	}, opts)
}

func TestRelationConfig_Descriptor(t *testing.T) {
	t.Run("belongs_to", func(t *testing.T) {
		desc, err := RelationConfig{Kind: "belongs_to", Table: "users", ForeignKey: "author_id"}.Descriptor("author")
		assert.NoError(t, err)
		assert.Equal(t, relation.KindBelongsTo, desc.Kind)
		assert.Equal(t, "users", desc.RelatedTable)
		assert.Equal(t, "author_id", desc.ForeignKey)
	})

	t.Run("has_one", func(t *testing.T) {
		desc, err := RelationConfig{Kind: "has_one", Table: "profiles"}.Descriptor("profile")
		assert.NoError(t, err)
		assert.Equal(t, relation.KindHasOne, desc.Kind)
	})

	t.Run("unsupported kind", func(t *testing.T) {
		_, err := RelationConfig{Kind: "many_to_many", Table: "tags"}.Descriptor("tags")
		assert.Error(t, err)
	})
}
