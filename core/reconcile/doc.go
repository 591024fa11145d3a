// Package reconcile implements the keyed merge of one worksheet into
// another. It is the pure core of the application: it never performs IO,
// never sleeps and never talks to storage. Callers hand it two Table
// views and a Rules value, get back a Plan, and decide what to do with it.
//
// # Model
//
// Source rows are folded into one record per distinct key; the first
// occurrence of a duplicate key wins. Target rows are then walked in
// ascending order and classified as matched, target-only or stray
// (keyless). Source keys with no target row become inserts. The result
// is a Plan holding explicit Actions plus an aggregate Summary.
//
// # Value derivation
//
// Each synchronized column has a Kind deciding how the written value is
// derived: trimmed text, zero-padded IDs, strict 0/1 booleans, a
// certificate flag computed from a free-text comment, or compressed
// numeric ranges collected across all rows of a key. Guarded columns are
// never overwritten on matched rows.
//
// # Planning and applying
//
// BuildPlan is read-only and fails fast with MissingColumnsError before
// planning anything against a structurally broken sheet. Plan.Apply
// executes mutations in a fixed order (updates and clears, deletes
// bottom-up, inserts last against the live table), which makes a run
// idempotent: applying the same data twice plans zero actions the second
// time.
//
// # Usage
//
//	plan, err := reconcile.BuildPlan(src, tgt, rules)
//	if err != nil { ... }
//	if dryRun {
//	    fmt.Println(plan.Summary)
//	    return
//	}
//	res := plan.Apply(tgt)
package reconcile
