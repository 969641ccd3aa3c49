package sortbuilder

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"column-sortable/internal/relation"
	"column-sortable/internal/sortparams"
	"column-sortable/internal/sqlutil"
)

// Join types applied when sorting through a relation.
const (
	JoinTypeLeft  = "leftJoin"
	JoinTypeInner = "innerJoin"
	JoinTypeRight = "rightJoin"
)

// Options is the resolved sorting configuration threaded through every
// apply call; there is no ambient state.
type Options struct {
	// DefaultDirection is used when the request omits or mangles the
	// direction parameter ("asc" or "desc").
	DefaultDirection string
	// DefaultFirstColumn sorts by the first declared sortable column when
	// the request carries no sort instruction.
	DefaultFirstColumn bool
	// AllowRequestModification writes a resolved default sort back into the
	// request parameters so downstream consumers observe it as if the user
	// supplied it.
	AllowRequestModification bool
	// JoinType selects the join flavor for relation sorting.
	JoinType string
	// Separator divides relation from column in sort tokens.
	Separator string
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		DefaultDirection:         sortparams.DirectionAsc,
		DefaultFirstColumn:       false,
		AllowRequestModification: true,
		JoinType:                 JoinTypeLeft,
		Separator:                relation.DefaultSeparator,
	}
}

// Builder applies sort requests to queries. It is stateless across calls
// and safe for concurrent use.
type Builder struct {
	opts   Options
	oracle ColumnOracle
	logger *slog.Logger
}

// New creates a Builder. The oracle may be nil, in which case models without
// a declared column whitelist reject every column. A nil logger falls back
// to slog.Default.
func New(opts Options, oracle ColumnOracle, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{opts: opts, oracle: oracle, logger: logger}
}

// Apply is the one-shot form of Session.Apply.
func (b *Builder) Apply(ctx context.Context, q sq.SelectBuilder, model Model, params map[string]string) (sq.SelectBuilder, error) {
	return b.NewSession().Apply(ctx, q, model, params)
}

// NewSession starts a per-query-build session. Sessions track which
// relations have been joined so that applying the same relation-qualified
// sort twice does not duplicate the join.
func (b *Builder) NewSession() *Session {
	return &Session{b: b, joined: make(map[string]struct{})}
}

// Session applies sort requests to one query build. Not safe for concurrent
// use; create one per request.
type Session struct {
	b      *Builder
	joined map[string]struct{}
}

// Joined reports whether any relation join has been applied through this
// session. Callers that project their own star column can use this to avoid
// colliding with the parent-star projection a join installs.
func (s *Session) Joined() bool {
	return len(s.joined) > 0
}

// Apply resolves the sort instruction in params against model and mutates q
// accordingly. Malformed or unknown user input returns q unmodified and no
// error; structural problems with relation declarations surface as
// *relation.Error values.
func (s *Session) Apply(ctx context.Context, q sq.SelectBuilder, model Model, params map[string]string) (sq.SelectBuilder, error) {
	b := s.b

	req := sortparams.Parse(params, b.opts.DefaultDirection)
	if !req.Requested() {
		var ok bool
		req, ok = b.resolveDefault(model, params)
		if !ok {
			return q, nil
		}
	}

	// A table filter scopes the sort to one listing; requests aimed at a
	// different listing on the same page must not touch this query.
	if req.Table != "" && req.Table != sortTableName(model) {
		return q, nil
	}

	current := model
	column := req.Column
	if ref, ok := relation.SplitReference(column, b.opts.Separator); ok {
		rel, found := lookupRelation(current, ref.Relation)
		if !found {
			return q, relation.NewUnknownError(ref.Relation)
		}
		spec, err := relation.Plan(rel.Descriptor, current.Table())
		if err != nil {
			return q, err
		}
		if _, already := s.joined[ref.Relation]; !already {
			q = s.applyJoin(q, spec)
			s.joined[ref.Relation] = struct{}{}
		}
		current = rel.Related
		column = ref.Column
	}

	if column == "" {
		return q, nil
	}

	if sp, ok := current.(SorterProvider); ok {
		if fn, found := sp.Sorter(column); found && fn != nil {
			return fn(q, req.Direction), nil
		}
	}

	if al, ok := current.(AliasLister); ok && slices.Contains(al.SortableAliases(), column) {
		return q.OrderBy(sqlutil.QuoteIdentifier(column) + " " + sqlDirection(req.Direction)), nil
	}

	exists, err := s.columnExists(ctx, current, column)
	if err != nil {
		return q, err
	}
	if !exists {
		b.logger.Debug("ignoring sort request for unknown column",
			slog.String("table", current.Table()),
			slog.String("column", column),
		)
		return q, nil
	}

	return q.OrderBy(sqlutil.Qualify(current.Table(), column) + " " + sqlDirection(req.Direction)), nil
}

// resolveDefault picks the first declared sortable column when default-first
// sorting is enabled, optionally merging the resolved pair back into params.
func (b *Builder) resolveDefault(model Model, params map[string]string) (sortparams.Request, bool) {
	if !b.opts.DefaultFirstColumn {
		return sortparams.Request{}, false
	}
	lister, ok := model.(ColumnLister)
	if !ok {
		return sortparams.Request{}, false
	}
	columns := lister.SortableColumns()
	if len(columns) == 0 {
		return sortparams.Request{}, false
	}

	req := sortparams.Request{
		Column:    columns[0],
		Direction: sortparams.NormalizeDirection(b.opts.DefaultDirection, sortparams.DirectionAsc),
	}
	if b.opts.AllowRequestModification && params != nil {
		params[sortparams.ParamSort] = req.Column
		params[sortparams.ParamDirection] = req.Direction
	}
	return req, true
}

func (s *Session) applyJoin(q sq.SelectBuilder, spec relation.JoinSpec) sq.SelectBuilder {
	if spec.FromExpr != "" {
		q = q.From(spec.FromExpr)
	}
	q = q.Column(spec.ParentSelect())

	clause := spec.JoinClause()
	switch s.b.opts.JoinType {
	case JoinTypeInner:
		return q.Join(clause)
	case JoinTypeRight:
		return q.RightJoin(clause)
	default:
		return q.LeftJoin(clause)
	}
}

// columnExists checks the declared whitelist first; a declared list is
// authoritative and skips introspection entirely. Models without a declared
// list fall back to the column oracle.
func (s *Session) columnExists(ctx context.Context, model Model, column string) (bool, error) {
	if lister, ok := model.(ColumnLister); ok {
		if columns := lister.SortableColumns(); columns != nil {
			return slices.Contains(columns, column), nil
		}
	}
	if s.b.oracle == nil {
		return false, nil
	}
	return s.b.oracle.HasColumn(ctx, model.Connection(), model.Table(), column)
}

func lookupRelation(model Model, name string) (Relation, bool) {
	provider, ok := model.(RelationProvider)
	if !ok {
		return Relation{}, false
	}
	return provider.Relation(name)
}

func sortTableName(model Model) string {
	if namer, ok := model.(SortTableNamer); ok {
		return namer.SortTableName()
	}
	return model.Table()
}

func sqlDirection(direction string) string {
	return strings.ToUpper(direction)
}
