// Package metrics aggregates decoded attempt records into running
// totals, per-category breakdowns, and a bounded time-bucketed
// timeline.
//
// # Timeline
//
// The timeline is an ordered sequence of fixed-width buckets keyed by
// their start epoch second. Consecutive buckets differ by exactly the
// bucket width: Ingest creates the bucket an event lands in, and
// BackfillTo fills the gap between the last bucket and now with empty
// buckets so the chart advances during idle periods. The sequence is
// capped; the oldest bucket is evicted first, from the sequence and
// the lookup index in the same step.
//
// Changing the bucket width clears the timeline instead of
// re-bucketing history. Cumulative counters survive a width change and
// are monotonically non-decreasing for the whole session; there is no
// reset operation.
package metrics
