package serverapp

import (
	"fmt"

	"column-sortable/internal/config"
	"column-sortable/internal/sortbuilder"
)

// DefaultConnection is the connection name used when a listing does not
// name one.
const DefaultConnection = "default"

// listingModel adapts a configured listing into the sortbuilder entity
// contract.
type listingModel struct {
	name      string
	cfg       config.ListingConfig
	relations map[string]sortbuilder.Relation
}

func newListingModel(name string, cfg config.ListingConfig) (*listingModel, error) {
	m := &listingModel{
		name:      name,
		cfg:       cfg,
		relations: make(map[string]sortbuilder.Relation, len(cfg.Relations)),
	}
	for relName, relCfg := range cfg.Relations {
		desc, err := relCfg.Descriptor(relName)
		if err != nil {
			return nil, fmt.Errorf("listing %q: %w", name, err)
		}
		m.relations[relName] = sortbuilder.Relation{
			Descriptor: desc,
			Related: &relatedModel{
				table:      relCfg.Table,
				connection: m.Connection(),
				sortable:   relCfg.Sortable,
				aliases:    relCfg.SortableAs,
			},
		}
	}
	return m, nil
}

func (m *listingModel) Table() string {
	return m.cfg.Table
}

func (m *listingModel) Connection() string {
	if m.cfg.Connection != "" {
		return m.cfg.Connection
	}
	return DefaultConnection
}

func (m *listingModel) SortableColumns() []string {
	return m.cfg.Sortable
}

func (m *listingModel) SortableAliases() []string {
	return m.cfg.SortableAs
}

func (m *listingModel) Relation(name string) (sortbuilder.Relation, bool) {
	rel, ok := m.relations[name]
	return rel, ok
}

func (m *listingModel) SortTableName() string {
	if m.cfg.SortTable != "" {
		return m.cfg.SortTable
	}
	return m.cfg.Table
}

// relatedModel is the sort target after a relation shift. It shares the
// parent's connection.
type relatedModel struct {
	table      string
	connection string
	sortable   []string
	aliases    []string
}

func (m *relatedModel) Table() string             { return m.table }
func (m *relatedModel) Connection() string        { return m.connection }
func (m *relatedModel) SortableColumns() []string { return m.sortable }
func (m *relatedModel) SortableAliases() []string { return m.aliases }
