// Package sortparams extracts and normalizes sort instructions from untrusted
// request parameters. Malformed input never produces an error; it degrades to
// safe defaults so tampered query strings cannot break a listing.
package sortparams

import "strings"

// Direction values after normalization.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// MaxTableFilterLen is the longest accepted value for the table filter
// parameter. Longer values are treated as absent.
const MaxTableFilterLen = 30

// Parameter names read from the request.
const (
	ParamSort      = "sort"
	ParamDirection = "direction"
	ParamTable     = "table"
)

// Request is a normalized sort instruction. A zero Column means no sorting
// was requested.
type Request struct {
	Column    string
	Direction string
	Table     string
}

// Requested reports whether the request names a sort column.
func (r Request) Requested() bool {
	return r.Column != ""
}

// Parse extracts a Request from raw request parameters.
//
// The direction is lower-cased and must be exactly "asc" or "desc";
// anything else falls back to defaultDirection. The table filter is kept
// only when its length is at most MaxTableFilterLen.
func Parse(params map[string]string, defaultDirection string) Request {
	req := Request{
		Direction: NormalizeDirection(params[ParamDirection], defaultDirection),
	}

	column := params[ParamSort]
	if column == "" {
		return req
	}
	req.Column = column

	if table := params[ParamTable]; table != "" && len(table) <= MaxTableFilterLen {
		req.Table = table
	}
	return req
}

// NormalizeDirection lower-cases dir and validates it, falling back to
// fallback when it is not a recognized direction. An invalid fallback
// resolves to ascending.
func NormalizeDirection(dir, fallback string) string {
	switch strings.ToLower(dir) {
	case DirectionAsc:
		return DirectionAsc
	case DirectionDesc:
		return DirectionDesc
	}
	switch strings.ToLower(fallback) {
	case DirectionDesc:
		return DirectionDesc
	default:
		return DirectionAsc
	}
}
