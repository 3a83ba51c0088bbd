// Command genmetrics appends synthetic metrics JSONL to a file, for
// exercising the dashboard without a live fleet.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

var regions = []string{
	"us-east", "us-west", "us-california", "us-texas", "us-florida",
	"us-new-york", "us-chicago", "us-atlanta", "us-denver", "us-seattle",
	"us-las-vegas", "us-silicon-valley", "us-houston", "us-washington-dc",
	"us-ohio", "us-michigan", "us-missouri", "us-indiana", "us-iowa",
	"us-wisconsin", "us-baltimore", "us-wilmington", "us-new-hampshire",
	"us-connecticut", "us-maine", "us-pennsylvania", "us-rhode-island",
	"us-vermont", "us-montana", "us-massachusetts", "us-nebraska",
	"us-new-mexico", "us-north-dakota", "us-wyoming", "us-alaska",
	"us-minnesota", "us-alabama", "us-oregon", "us-south-dakota",
	"us-idaho", "us-kentucky", "us-oklahoma", "us-south-carolina",
	"us-mississippi", "us-north-carolina", "us-kansas", "us-virginia",
	"us-west-virginia", "us-tennessee", "us-arkansas", "us-louisiana",
	"us-honolulu", "us-salt-lake-city",
}

var failureReasons = []string{
	"no_success_text", "button_not_found", "timeout_exception", "generic_exception",
}

type record struct {
	TS               string `json:"ts"`
	InstanceID       string `json:"instance_id"`
	Attempt          int    `json:"attempt"`
	Success          bool   `json:"success"`
	Reason           string `json:"reason"`
	ElapsedMS        int    `json:"elapsed_ms"`
	Proxy            bool   `json:"proxy"`
	RotatedOnFailure bool   `json:"rotated_on_failure"`
	URL              string `json:"url"`
	BatchRegion      string `json:"batch_region"`
}

func main() {
	os.Exit(run())
}

func run() int {
	output := flag.String("output", "", "metrics JSONL file to append to (required)")
	instances := flag.Int("instances", 3, "number of synthetic instances")
	duration := flag.Duration("duration", 30*time.Second, "total run duration")
	tick := flag.Duration("tick", time.Second, "tick interval")
	attemptsPerTick := flag.Int("attempts-per-tick", 1, "attempts per instance per tick")
	successRate := flag.Float64("success-rate", 0.7, "probability of success per attempt")
	rotateEvery := flag.Duration("rotate-every", 10*time.Second, "rotate batch region this often")
	url := flag.String("url", "https://www.seccompare.com", "url recorded in each metric")
	proxy := flag.Bool("proxy", false, "set proxy=true in metrics")
	seed := flag.Int64("seed", 0, "random seed (0 means time-based)")
	flag.Parse()

	if *output == "" {
		fmt.Fprintln(os.Stderr, "genmetrics: -output is required")
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	if err := generate(ctx, generatorOptions{
		Output:          *output,
		Instances:       *instances,
		Duration:        *duration,
		Tick:            *tick,
		AttemptsPerTick: *attemptsPerTick,
		SuccessRate:     *successRate,
		RotateEvery:     *rotateEvery,
		URL:             *url,
		Proxy:           *proxy,
	}, rng); err != nil {
		fmt.Fprintf(os.Stderr, "genmetrics: %v\n", err)
		return 1
	}
	return 0
}

type generatorOptions struct {
	Output          string
	Instances       int
	Duration        time.Duration
	Tick            time.Duration
	AttemptsPerTick int
	SuccessRate     float64
	RotateEvery     time.Duration
	URL             string
	Proxy           bool
}

func generate(ctx context.Context, opts generatorOptions, rng *rand.Rand) error {
	if dir := filepath.Dir(opts.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	file, err := os.OpenFile(opts.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer file.Close()

	tickEvery := opts.Tick
	if tickEvery < 50*time.Millisecond {
		tickEvery = 50 * time.Millisecond
	}

	attempts := make([]int, opts.Instances)
	region := chooseRegion(rng, "")
	nextRotate := time.Now().Add(opts.RotateEvery)
	deadline := time.Now().Add(opts.Duration)

	enc := json.NewEncoder(file)
	for time.Now().Before(deadline) {
		now := time.Now()
		if !now.Before(nextRotate) {
			region = chooseRegion(rng, region)
			nextRotate = now.Add(opts.RotateEvery)
		}
		for inst := 1; inst <= opts.Instances; inst++ {
			for a := 0; a < opts.AttemptsPerTick; a++ {
				attempts[inst-1]++
				ok := rng.Float64() < opts.SuccessRate
				reason := "success_text_detected"
				if !ok {
					reason = failureReasons[rng.Intn(len(failureReasons))]
				}
				rec := record{
					TS:               now.UTC().Format("2006-01-02T15:04:05"),
					InstanceID:       fmt.Sprintf("gen%d", inst),
					Attempt:          attempts[inst-1],
					Success:          ok,
					Reason:           reason,
					ElapsedMS:        300 + rng.Intn(3200),
					Proxy:            opts.Proxy,
					RotatedOnFailure: !ok && rng.Float64() < 0.3,
					URL:              opts.URL,
					BatchRegion:      region,
				}
				if err := enc.Encode(rec); err != nil {
					return fmt.Errorf("write record: %w", err)
				}
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(tickEvery):
		}
	}
	return nil
}

// chooseRegion picks a region different from the current one when it
// can find one in a handful of draws.
func chooseRegion(rng *rand.Rand, current string) string {
	if current == "" {
		return regions[rng.Intn(len(regions))]
	}
	for i := 0; i < 10; i++ {
		if cand := regions[rng.Intn(len(regions))]; cand != current {
			return cand
		}
	}
	return regions[rng.Intn(len(regions))]
}
