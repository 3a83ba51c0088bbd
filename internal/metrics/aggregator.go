package metrics

import (
	"sort"
	"time"

	"fleetmon/internal/event"
)

// Counts pairs success and failure tallies for one grouping key.
type Counts struct {
	Success int
	Fail    int
}

// Total returns the combined event volume.
func (c Counts) Total() int { return c.Success + c.Fail }

// Bucket is one fixed-width timeline window.
type Bucket struct {
	Start   int64 // epoch seconds, aligned to the bucket width
	Success int
	Fail    int
}

// Total returns the combined event volume in the bucket.
func (b Bucket) Total() int { return b.Success + b.Fail }

// Category is a grouping key with its counts, used for top-N views.
type Category struct {
	Name string
	Counts
}

// Aggregator maintains the running totals, per-category breakdowns,
// and the bounded time-bucketed timeline for one dashboard session.
// It is not safe for concurrent use; the dashboard control loop is the
// only mutator.
type Aggregator struct {
	bucketWidth int
	maxBuckets  int

	success int
	fail    int
	dropped int

	perInstance map[string]Counts
	perRegion   map[string]Counts

	timeline []Bucket
	index    map[int64]int // bucket start -> position in timeline
}

// New creates an Aggregator with the given bucket width in seconds and
// timeline capacity. Both are clamped to at least 1.
func New(bucketWidth, maxBuckets int) *Aggregator {
	if bucketWidth < 1 {
		bucketWidth = 1
	}
	if maxBuckets < 1 {
		maxBuckets = 1
	}
	return &Aggregator{
		bucketWidth: bucketWidth,
		maxBuckets:  maxBuckets,
		perInstance: make(map[string]Counts),
		perRegion:   make(map[string]Counts),
		index:       make(map[int64]int),
	}
}

// Ingest decodes and counts every line. Malformed lines increment the
// dropped counter and nothing else; ingestion never fails. The now
// argument anchors records whose timestamps cannot be parsed.
func (a *Aggregator) Ingest(lines []string, now time.Time) {
	for _, line := range lines {
		rec, ok := event.Decode(line)
		if !ok {
			a.dropped++
			continue
		}
		a.ingest(rec, now)
	}
}

func (a *Aggregator) ingest(rec event.Record, now time.Time) {
	if rec.Success {
		a.success++
	} else {
		a.fail++
	}

	inst := a.perInstance[rec.InstanceID]
	reg := a.perRegion[rec.BatchRegion]
	if rec.Success {
		inst.Success++
		reg.Success++
	} else {
		inst.Fail++
		reg.Fail++
	}
	a.perInstance[rec.InstanceID] = inst
	a.perRegion[rec.BatchRegion] = reg

	start := a.bucketStart(rec.Time(now))
	a.ensureBucket(start)
	i := a.index[start]
	if rec.Success {
		a.timeline[i].Success++
	} else {
		a.timeline[i].Fail++
	}
}

// BackfillTo appends empty buckets after the last one, up to and
// including the bucket containing now. This keeps the timeline's
// trailing edge current during idle periods so the chart keeps moving.
func (a *Aggregator) BackfillTo(now time.Time) {
	target := a.bucketStart(now)
	if len(a.timeline) == 0 {
		a.ensureBucket(target)
		return
	}
	last := a.timeline[len(a.timeline)-1].Start
	for b := last + int64(a.bucketWidth); b <= target; b += int64(a.bucketWidth) {
		a.ensureBucket(b)
	}
}

// SetBucketWidth changes the window used for future buckets and clears
// the timeline. Old buckets are deliberately not re-bucketed: operators
// rely on a width change giving a clean slate. Cumulative counters are
// untouched.
func (a *Aggregator) SetBucketWidth(seconds int) {
	if seconds < 1 {
		seconds = 1
	}
	a.bucketWidth = seconds
	a.timeline = a.timeline[:0]
	a.index = make(map[int64]int)
}

// BucketWidth returns the current bucket width in seconds.
func (a *Aggregator) BucketWidth() int { return a.bucketWidth }

// Totals returns the running success and failure counts.
func (a *Aggregator) Totals() (success, fail int) { return a.success, a.fail }

// Dropped returns how many malformed lines were discarded.
func (a *Aggregator) Dropped() int { return a.dropped }

// Timeline returns a copy of the bucket sequence, oldest first.
func (a *Aggregator) Timeline() []Bucket {
	if len(a.timeline) == 0 {
		return nil
	}
	out := make([]Bucket, len(a.timeline))
	copy(out, a.timeline)
	return out
}

// LastBucket returns the most recent bucket, if any.
func (a *Aggregator) LastBucket() (Bucket, bool) {
	if len(a.timeline) == 0 {
		return Bucket{}, false
	}
	return a.timeline[len(a.timeline)-1], true
}

// PerInstance returns a copy of the per-instance breakdown.
func (a *Aggregator) PerInstance() map[string]Counts { return cloneCounts(a.perInstance) }

// PerRegion returns a copy of the per-region breakdown.
func (a *Aggregator) PerRegion() map[string]Counts { return cloneCounts(a.perRegion) }

// TopRegions returns up to n regions ordered by descending volume,
// ties broken by name for stable output.
func (a *Aggregator) TopRegions(n int) []Category { return topCategories(a.perRegion, n) }

// TopInstances returns up to n instances ordered by descending volume.
func (a *Aggregator) TopInstances(n int) []Category { return topCategories(a.perInstance, n) }

// Snapshot captures everything a renderer needs from one tick. It is
// a value copy; the aggregator can keep mutating after it is taken.
type Snapshot struct {
	Success      int
	Fail         int
	Dropped      int
	BucketWidth  int
	Timeline     []Bucket
	TopRegions   []Category
	TopInstances []Category
}

// Total returns the combined event volume.
func (s Snapshot) Total() int { return s.Success + s.Fail }

// LastBucket returns the trailing bucket, if any.
func (s Snapshot) LastBucket() (Bucket, bool) {
	if len(s.Timeline) == 0 {
		return Bucket{}, false
	}
	return s.Timeline[len(s.Timeline)-1], true
}

// Snapshot returns a renderable copy of the aggregator state with up
// to topN entries per category breakdown.
func (a *Aggregator) Snapshot(topN int) Snapshot {
	return Snapshot{
		Success:      a.success,
		Fail:         a.fail,
		Dropped:      a.dropped,
		BucketWidth:  a.bucketWidth,
		Timeline:     a.Timeline(),
		TopRegions:   a.TopRegions(topN),
		TopInstances: a.TopInstances(topN),
	}
}

func (a *Aggregator) bucketStart(t time.Time) int64 {
	sec := t.Unix()
	return sec - (sec % int64(a.bucketWidth))
}

// ensureBucket appends a bucket for start if it is not indexed yet,
// evicting the oldest bucket when over capacity. The index and the
// sequence are updated together; a reader never sees one without the
// other.
func (a *Aggregator) ensureBucket(start int64) {
	if _, ok := a.index[start]; ok {
		return
	}
	a.timeline = append(a.timeline, Bucket{Start: start})
	a.index[start] = len(a.timeline) - 1

	for len(a.timeline) > a.maxBuckets {
		delete(a.index, a.timeline[0].Start)
		a.timeline = append(a.timeline[:0], a.timeline[1:]...)
		for i := range a.timeline {
			a.index[a.timeline[i].Start] = i
		}
	}
}

func cloneCounts(m map[string]Counts) map[string]Counts {
	out := make(map[string]Counts, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func topCategories(m map[string]Counts, n int) []Category {
	cats := make([]Category, 0, len(m))
	for name, counts := range m {
		cats = append(cats, Category{Name: name, Counts: counts})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Total() != cats[j].Total() {
			return cats[i].Total() > cats[j].Total()
		}
		return cats[i].Name < cats[j].Name
	})
	if n >= 0 && len(cats) > n {
		cats = cats[:n]
	}
	return cats
}
