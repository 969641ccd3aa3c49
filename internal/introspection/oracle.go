// Package introspection answers column-existence questions against a live
// database's INFORMATION_SCHEMA. It backs the sort whitelist fallback for
// models that do not declare an explicit sortable column list. Results are
// not cached; every check is a live query.
package introspection

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Queryer provides query access for schema lookups.
type Queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Connection pairs a database handle with the schema name its tables live in.
type Connection struct {
	DB       Queryer
	Database string
}

// Registry resolves connection names to introspectable database handles. It
// implements the sortbuilder ColumnOracle contract.
type Registry struct {
	connections map[string]Connection
}

// NewRegistry creates a Registry over named connections.
func NewRegistry(connections map[string]Connection) *Registry {
	if connections == nil {
		connections = make(map[string]Connection)
	}
	return &Registry{connections: connections}
}

// Register adds or replaces a named connection.
func (r *Registry) Register(name string, conn Connection) {
	r.connections[name] = conn
}

const hasColumnQuery = `SELECT COUNT(*) FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND COLUMN_NAME = ?`

// HasColumn reports whether the table on the named connection has the given
// column. An unknown connection name is a configuration fault and returns an
// error rather than a silent false.
func (r *Registry) HasColumn(ctx context.Context, connection, table, column string) (bool, error) {
	ctx, span := startSpan(ctx, "introspection.has_column",
		attribute.String("db.connection", connection),
		attribute.String("db.table", table),
		attribute.String("db.column", column),
	)
	defer span.End()

	conn, ok := r.connections[connection]
	if !ok {
		err := fmt.Errorf("unknown database connection %q", connection)
		recordSpanError(span, err)
		return false, err
	}

	var count int
	if err := conn.DB.QueryRowContext(ctx, hasColumnQuery, conn.Database, table, column).Scan(&count); err != nil {
		recordSpanError(span, err)
		return false, fmt.Errorf("failed to check column %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer("column-sortable/introspection")
	ctx, span := tracer.Start(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}

func recordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
