package rowset

import "sort"

// Row maps column name to the value the query engine serialised.
type Row map[string]string

// ResultSet is a query result in emission order.
type ResultSet []Row

// Columns returns the row's column names sorted lexically.
func (r Row) Columns() []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Clone returns a deep copy of the result set.
func (rs ResultSet) Clone() ResultSet {
	if rs == nil {
		return nil
	}
	out := make(ResultSet, len(rs))
	for i, row := range rs {
		cp := make(Row, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}
