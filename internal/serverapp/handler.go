package serverapp

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	sq "github.com/Masterminds/squirrel"

	"column-sortable/internal/logging"
	"column-sortable/internal/relation"
	"column-sortable/internal/sortbuilder"
	"column-sortable/internal/sortparams"
	"column-sortable/internal/sqlutil"
)

// listingHandler serves one sortable listing as JSON rows.
type listingHandler struct {
	model   *listingModel
	builder *sortbuilder.Builder
	db      *sql.DB
	maxRows int
}

// listingResponse is the JSON envelope for listing results. Sort and
// Direction echo the applied sort, including a resolved default when request
// modification is enabled.
type listingResponse struct {
	Data      []map[string]any `json:"data"`
	Sort      string           `json:"sort,omitempty"`
	Direction string           `json:"direction,omitempty"`
}

func (h *listingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	params := sortParamsFromRequest(r)

	session := h.builder.NewSession()
	q := sq.Select().From(sqlutil.QuoteIdentifier(h.model.Table()))
	q, err := session.Apply(ctx, q, h.model, params)
	if err != nil {
		var relErr *relation.Error
		if errors.As(err, &relErr) {
			logger.Error("listing has a broken relation declaration",
				slog.String("listing", h.model.name),
				slog.String("relation", relErr.Relation),
				slog.String("reason", relErr.Reason),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Error("sort column check failed",
				slog.String("listing", h.model.name),
				slog.String("error", err.Error()),
			)
		}
		writeError(w, http.StatusInternalServerError, "listing unavailable")
		return
	}

	// A relation join installs the parent-star projection itself; plain
	// queries project their own star.
	if !session.Joined() {
		q = q.Column(sqlutil.QuoteIdentifier(h.model.Table()) + ".*")
	}
	q = q.Limit(uint64(h.maxRows))

	sqlStr, args, err := q.ToSql()
	if err != nil {
		logger.Error("failed to build listing query", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "listing unavailable")
		return
	}

	rows, err := h.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		logger.Error("listing query failed",
			slog.String("listing", h.model.name),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "listing unavailable")
		return
	}
	defer rows.Close()

	data, err := scanRows(rows)
	if err != nil {
		logger.Error("failed to scan listing rows", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "listing unavailable")
		return
	}

	writeJSON(w, http.StatusOK, listingResponse{
		Data:      data,
		Sort:      params[sortparams.ParamSort],
		Direction: params[sortparams.ParamDirection],
	})
}

func sortParamsFromRequest(r *http.Request) map[string]string {
	query := r.URL.Query()
	params := make(map[string]string, 3)
	for _, key := range []string{sortparams.ParamSort, sortparams.ParamDirection, sortparams.ParamTable} {
		if value := query.Get(key); value != "" {
			params[key] = value
		}
	}
	return params
}

// scanRows converts result rows into JSON-friendly maps. Byte slices become
// strings because the mysql driver returns most text and numeric columns as
// []byte.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	data := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		data = append(data, row)
	}
	return data, rows.Err()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
