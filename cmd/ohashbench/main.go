// ohashbench runs in-process put/get/delete throughput benchmarks against
// ohash.Map across a range of dataset sizes and writes a markdown report,
// grounded on tk-bench's dataset-sweep-then-markdown-table shape (adapted
// from shelling out to hyperfine/an external binary to timing the library
// in-process, since there is no separate ohash binary to invoke).
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/ohash/internal/ohashcli"
	"github.com/calvinalkan/ohash/pkg/ohash"
	"github.com/calvinalkan/ohash/pkg/ohash/ohashhash"
)

// Config holds all benchmark configuration.
type Config struct {
	Counts []int
	OutDir string
	Warmup int
	Runs   int
}

// profileFileName is the default workload-profile file looked for in the
// working directory, the way the teacher's config.go looks for .tk.json.
const profileFileName = ".ohashbench.json"

// profile is the JSON5/hujson-decodable subset of Config that a workload
// profile file may override. Zero fields mean "not specified".
type profile struct {
	Counts []int `json:"counts,omitempty"`
	Warmup int   `json:"warmup,omitempty"`
	Runs   int   `json:"runs,omitempty"`
}

// loadProfile resolves a workload profile with precedence (highest wins):
// 1. built-in defaults, 2. the project file (.ohashbench.json, if present),
// 3. an explicit --profile path (if given). Grounded on the teacher's
// LoadConfig/loadConfigFile precedence chain, simplified to two file tiers
// since ohashbench has no global/user-level config directory.
func loadProfile(explicitPath string) (profile, error) {
	var merged profile

	if _, err := os.Stat(profileFileName); err == nil {
		p, err := readProfileFile(profileFileName)
		if err != nil {
			return profile{}, err
		}

		merged = mergeProfile(merged, p)
	}

	if explicitPath != "" {
		p, err := readProfileFile(explicitPath)
		if err != nil {
			return profile{}, err
		}

		merged = mergeProfile(merged, p)
	}

	return merged, nil
}

func readProfileFile(path string) (profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // CLI-provided path, read-only
	if err != nil {
		return profile{}, fmt.Errorf("reading profile %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return profile{}, fmt.Errorf("invalid JSONC in %s: %w", path, err)
	}

	var p profile
	if err := json.Unmarshal(standardized, &p); err != nil {
		return profile{}, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	return p, nil
}

func mergeProfile(base, overlay profile) profile {
	if len(overlay.Counts) > 0 {
		base.Counts = overlay.Counts
	}

	if overlay.Warmup > 0 {
		base.Warmup = overlay.Warmup
	}

	if overlay.Runs > 0 {
		base.Runs = overlay.Runs
	}

	return base
}

// Result holds timing for one (dataset size, operation) pair.
type Result struct {
	Count int
	Op    string
	Mean  time.Duration
	Min   time.Duration
	Max   time.Duration
}

func main() {
	var (
		countsStr   string
		warmup      int
		runs        int
		profilePath string
		outDir      string
	)

	flag.StringVar(&countsStr, "counts", "", "comma-separated list of entry counts to benchmark (default 1000,100000,1000000)")
	flag.StringVar(&outDir, "out", ".benchmarks", "output directory for the report")
	flag.IntVar(&warmup, "warmup", 0, "number of warmup passes before timed runs (default 1)")
	flag.IntVar(&runs, "runs", 0, "number of timed runs per operation (default 5)")
	flag.StringVar(&profilePath, "profile", "", "path to a JSON5/hujson workload-profile file (optional; .ohashbench.json in the working directory is also honored)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "Usage: ohashbench [flags]\n\n")
		fmt.Fprint(os.Stderr, "Benchmarks ohash.Map: bulk Set, Get (all hits), Get (all misses), Remove.\n\n")
		fmt.Fprint(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	prof, err := loadProfile(profilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg := Config{
		OutDir: outDir,
		Counts: prof.Counts,
		Warmup: prof.Warmup,
		Runs:   prof.Runs,
	}

	if cfg.Warmup == 0 {
		cfg.Warmup = 1
	}

	if cfg.Runs == 0 {
		cfg.Runs = 5
	}

	if countsStr != "" {
		cfg.Counts = nil

		for countStr := range strings.SplitSeq(countsStr, ",") {
			countStr = strings.TrimSpace(countStr)
			if countStr == "" {
				continue
			}

			count, err := strconv.Atoi(countStr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid count %q: %v\n", countStr, err)
				os.Exit(1)
			}

			cfg.Counts = append(cfg.Counts, count)
		}
	}

	if warmup > 0 {
		cfg.Warmup = warmup
	}

	if runs > 0 {
		cfg.Runs = runs
	}

	if len(cfg.Counts) == 0 {
		cfg.Counts = []int{1000, 100000, 1000000}
	}

	if err := os.MkdirAll(cfg.OutDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	io := ohashcli.NewIO(os.Stdout, os.Stderr)

	if err := runBenchmarks(io, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "benchmark failed: %v\n", err)
		os.Exit(1)
	}
}

var errEmptyKeySet = errors.New("no keys generated for dataset")

func runBenchmarks(o *ohashcli.IO, cfg *Config) error {
	timestamp := time.Now().UTC().Format("20060102-150405")
	outFile := filepath.Join(cfg.OutDir, fmt.Sprintf("ohash_bench_%s.md", timestamp))

	var report strings.Builder
	report.WriteString(getSystemInfo())

	for _, count := range cfg.Counts {
		if count <= 0 {
			continue
		}

		o.ErrPrintf("\n%s\n", strings.Repeat("=", 60))
		o.ErrPrintf("BENCHMARKS: %d entries\n", count)
		o.ErrPrintf("%s\n\n", strings.Repeat("=", 60))

		keys, err := generateKeys(count)
		if err != nil {
			return err
		}

		missingKeys, err := generateKeys(count)
		if err != nil {
			return err
		}

		// generateKeys is seeded by count, so tag these to keep them out of keys.
		for i := range missingKeys {
			missingKeys[i] += "-miss"
		}

		var results []Result

		res, err := benchOp(o, cfg, count, "Set (fresh keys)", func() {
			m, _ := ohash.NewMap[string, int](ohash.DefaultConfig(), ohashhash.String, ohashhash.IdentityEqual[string])
			for i, k := range keys {
				_, _, _ = m.Set(k, i)
			}
		})
		if err != nil {
			return err
		}

		results = append(results, res)

		m, err := ohash.NewMap[string, int](ohash.DefaultConfig(), ohashhash.String, ohashhash.IdentityEqual[string])
		if err != nil {
			return fmt.Errorf("creating map: %w", err)
		}

		for i, k := range keys {
			if _, _, err := m.Set(k, i); err != nil {
				return fmt.Errorf("priming map: %w", err)
			}
		}

		const sentinel = -1

		res, err = benchOp(o, cfg, count, "Get (all hits)", func() {
			for _, k := range keys {
				_ = m.Get(k, sentinel)
			}
		})
		if err != nil {
			return err
		}

		results = append(results, res)

		res, err = benchOp(o, cfg, count, "Get (all misses)", func() {
			for _, k := range missingKeys {
				_ = m.Get(k, sentinel)
			}
		})
		if err != nil {
			return err
		}

		results = append(results, res)

		res, err = benchOp(o, cfg, count, "Remove (all hits)", func() {
			clone, _ := ohash.NewMap[string, int](ohash.DefaultConfig(), ohashhash.String, ohashhash.IdentityEqual[string])
			for i, k := range keys {
				_, _, _ = clone.Set(k, i)
			}

			for _, k := range keys {
				_, _, _ = clone.Remove(k)
			}
		})
		if err != nil {
			return err
		}

		results = append(results, res)

		report.WriteString(fmt.Sprintf("### Dataset: %d entries\n\n", count))
		report.WriteString(fmt.Sprintf("- warmup: %d; runs: %d\n\n", cfg.Warmup, cfg.Runs))
		report.WriteString("| Operation | Mean | Min | Max |\n")
		report.WriteString("|:---|---:|---:|---:|\n")

		for _, r := range results {
			report.WriteString(fmt.Sprintf("| %s | %v | %v | %v |\n", r.Op, r.Mean.Round(time.Microsecond), r.Min.Round(time.Microsecond), r.Max.Round(time.Microsecond)))
		}

		report.WriteString("\n")
	}

	if err := os.WriteFile(outFile, []byte(report.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	o.ErrPrintf("wrote %s\n", outFile)

	return nil
}

// benchOp runs fn cfg.Warmup times unscored, then cfg.Runs times timed.
func benchOp(o *ohashcli.IO, cfg *Config, count int, label string, fn func()) (Result, error) {
	o.ErrPrintf("--- %s (%d entries) ---\n", label, count)

	for i := 0; i < cfg.Warmup; i++ {
		fn()
	}

	var sum time.Duration

	min := time.Duration(0)
	max := time.Duration(0)

	for i := 0; i < cfg.Runs; i++ {
		start := time.Now()
		fn()
		elapsed := time.Since(start)

		sum += elapsed

		if i == 0 || elapsed < min {
			min = elapsed
		}

		if elapsed > max {
			max = elapsed
		}
	}

	return Result{
		Count: count,
		Op:    label,
		Mean:  sum / time.Duration(cfg.Runs),
		Min:   min,
		Max:   max,
	}, nil
}

func generateKeys(count int) ([]string, error) {
	if count <= 0 {
		return nil, errEmptyKeySet
	}

	rnd := rand.New(rand.NewSource(int64(count)))
	keys := make([]string, count)

	for i := range keys {
		keys[i] = strconv.FormatUint(rnd.Uint64(), 36) + "-" + strconv.Itoa(i)
	}

	return keys, nil
}

func getSystemInfo() string {
	var sb strings.Builder

	timestampUTC := time.Now().UTC().Format(time.RFC3339)
	sb.WriteString(fmt.Sprintf("## Run %s\n\n", timestampUTC))
	sb.WriteString(fmt.Sprintf("- %s\n", runtime.Version()))
	sb.WriteString(fmt.Sprintf("- %s/%s\n\n", runtime.GOOS, runtime.GOARCH))

	return sb.String()
}
