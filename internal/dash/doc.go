// Package dash is the dashboard engine shared by the TUI and headless
// front-ends: a Session of live-tunable knobs plus a Controller that
// runs the poll → ingest → backfill → render cycle.
//
// The engine is deliberately single-threaded. One timer drives Tick, a
// slower one drives the auxiliary status refresh, and key commands
// arrive between ticks; front-ends interleave all three on one control
// goroutine, so the engine needs no locking. Within a tick, ingestion
// always completes before anything reads the aggregator.
package dash
