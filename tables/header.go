package tables

import (
	"strings"

	"github.com/tsawler/docingest/model"
)

// HeaderPolicy decides whether the first row of a recovered table names
// its columns.
type HeaderPolicy interface {
	HasHeader(m model.Matrix) bool
}

// HeaderPolicyFunc adapts a function to HeaderPolicy.
type HeaderPolicyFunc func(m model.Matrix) bool

// HasHeader calls f(m).
func (f HeaderPolicyFunc) HasHeader(m model.Matrix) bool { return f(m) }

// DistinctHalf treats row 0 as a header unless it has fewer distinct
// non-empty values than half the column count (integer division). Sparse or
// repetitive first rows are taken as data and columns are named col_<i>.
type DistinctHalf struct{}

// HasHeader implements HeaderPolicy.
func (DistinctHalf) HasHeader(m model.Matrix) bool {
	if len(m) == 0 {
		return false
	}
	cols := len(m[0])
	distinct := make(map[string]struct{}, cols)
	for _, v := range m[0] {
		if v = strings.TrimSpace(v); v != "" {
			distinct[v] = struct{}{}
		}
	}
	return len(distinct) >= cols/2
}

// FirstRow always promotes row 0 to the header.
type FirstRow struct{}

// HasHeader implements HeaderPolicy.
func (FirstRow) HasHeader(m model.Matrix) bool { return len(m) > 0 }

// NoHeader never promotes row 0.
type NoHeader struct{}

// HasHeader implements HeaderPolicy.
func (NoHeader) HasHeader(model.Matrix) bool { return false }

// Apply drops all-empty columns from m and builds a table whose header is
// chosen by policy. A nil policy means DistinctHalf. It returns nil when no
// data rows remain.
func Apply(policy HeaderPolicy, m model.Matrix) *model.Table {
	if policy == nil {
		policy = DistinctHalf{}
	}

	m = m.DropEmptyColumns()
	if len(m) == 0 || len(m[0]) == 0 {
		return nil
	}

	var t *model.Table
	if policy.HasHeader(m) {
		t = model.TableWithHeader(m)
	} else {
		t = model.TableWithoutHeader(m)
	}
	if t.RowCount() == 0 {
		return nil
	}
	return t
}
