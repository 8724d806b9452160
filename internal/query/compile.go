package query

import (
	"fmt"
	"strings"
)

// recordColumns is the fixed projection for log reads; callers scan
// whole records, never subsets.
const recordColumns = "seq, id, op_token, kind, account, counterparty, amount, at"

// Compile converts a filter to parameterized SQLite SQL.
//
// Every compiled query ends with ORDER BY seq ASC, id COLLATE BINARY
// ASC: log reads are deterministic by construction, and the binary
// collation keeps the tiebreaker locale-independent. Values are always
// bound as parameters, never interpolated.
func Compile(f Filter) (string, []any, error) {
	if err := f.Validate(); err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}

	var conds []string
	var params []any

	if len(f.Kinds) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(f.Kinds)), ", ")
		conds = append(conds, "kind IN ("+placeholders+")")
		for _, k := range f.Kinds {
			params = append(params, k)
		}
	}
	if f.Account != "" {
		conds = append(conds, "(account = ? OR counterparty = ?)")
		params = append(params, f.Account, f.Account)
	}
	if f.OpToken != "" {
		conds = append(conds, "op_token = ?")
		params = append(params, f.OpToken)
	}
	if !f.Since.IsZero() {
		conds = append(conds, "at >= ?")
		params = append(params, f.Since.Unix())
	}
	if !f.Until.IsZero() {
		conds = append(conds, "at < ?")
		params = append(params, f.Until.Unix())
	}
	if f.AfterSeq > 0 {
		conds = append(conds, "seq > ?")
		params = append(params, f.AfterSeq)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(recordColumns)
	b.WriteString(" FROM events")
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY seq ASC, id COLLATE BINARY ASC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, f.Limit)
	}

	return b.String(), params, nil
}
