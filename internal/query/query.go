// Package query describes filtered reads of the record log and
// compiles them to parameterized SQL.
//
// A Filter is a closed vocabulary rather than a predicate tree: every
// condition the log supports is a named field, all values are
// parameterized, and every compiled query carries a deterministic
// ORDER BY. That keeps log reads reproducible and leaves no string
// interpolation path into SQL.
package query

import (
	"fmt"
	"time"
)

// Filter selects records from the log. The zero value selects the
// whole log. All set conditions must hold (AND semantics).
type Filter struct {
	// Kinds restricts to the given record kinds, any of.
	Kinds []string

	// Account restricts to records naming the account, as subject or
	// as transfer counterparty.
	Account string

	// OpToken restricts to the records of one operation.
	OpToken string

	// Since is the inclusive lower timestamp bound.
	Since time.Time

	// Until is the exclusive upper timestamp bound.
	Until time.Time

	// AfterSeq restricts to records with seq strictly greater. Used
	// for incremental tailing of the log.
	AfterSeq int64

	// Limit caps the number of records returned. Zero means no cap.
	Limit int
}

// Validate checks the filter before compilation.
func (f Filter) Validate() error {
	for i, k := range f.Kinds {
		if k == "" {
			return fmt.Errorf("kind %d is empty", i)
		}
	}
	if f.AfterSeq < 0 {
		return fmt.Errorf("after_seq %d is negative", f.AfterSeq)
	}
	if f.Limit < 0 {
		return fmt.Errorf("limit %d is negative", f.Limit)
	}
	if !f.Since.IsZero() && !f.Until.IsZero() && !f.Until.After(f.Since) {
		return fmt.Errorf("until %s is not after since %s",
			f.Until.UTC().Format(time.RFC3339), f.Since.UTC().Format(time.RFC3339))
	}
	return nil
}
