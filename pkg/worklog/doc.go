// Package worklog implements dated work notes: per-user CRUD with project
// and date-range filtering, period statistics with previous-period
// comparison, and CSV export.
//
// A note records between 0.5 and 4 hours of work; longer stretches are
// split into multiple notes. All operations are scoped to the acting user
// and a foreign note is indistinguishable from a missing one.
package worklog
