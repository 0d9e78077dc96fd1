// Package main provides a performance benchmarking tool for the git-indexer CLI.
// For every repository it measures a cold index into a fresh snapshot, the
// average of the warm incremental runs that follow and a Parquet export,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - git-indexer binary installed and available in PATH
// - Test repositories cloned to the specified base directory
//
// Usage: go run benchmark/main.go [repo-base-dir] [repo...]
//
//	repo-base-dir: Directory containing test repositories
//	repo:          Repository directory names, defaults to csv-parser fd git kubernetes
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of the runs over one repository.
type BenchmarkResult struct {
	Repository string
	ColdTime   string
	WarmTime   string
	ExportTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase  string
	WorkDir   string
	Timeout   time.Duration
	WarmRuns  int
	TestRepos []string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s [repo-base-dir] [repo...]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:  os.Args[1],
		Timeout:   30 * time.Minute,
		WarmRuns:  3,
		TestRepos: []string{"csv-parser", "fd", "git", "kubernetes"},
	}
	if len(os.Args) > 2 {
		config.TestRepos = os.Args[2:]
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	workDir, err := os.MkdirTemp("", "git-indexer-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()
	config.WorkDir = workDir

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the git-indexer binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("git-indexer"); err != nil {
		return fmt.Errorf("git-indexer binary not found in PATH")
	}

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}

	return nil
}

// runBenchmarks executes the benchmark suite across configured repositories
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, warm: %d runs\n",
		len(config.TestRepos), config.Timeout, config.WarmRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		results = append(results, runBenchmarkSuite(config, repo))
	}

	return results
}

// runBenchmarkSuite indexes one repository into its own snapshot, first cold then warm
func runBenchmarkSuite(config BenchmarkConfig, repo string) BenchmarkResult {
	repoPath, _ := filepath.Abs(filepath.Join(config.RepoBase, repo))
	listFile := filepath.Join(config.WorkDir, repo+".txt")
	snapshot := filepath.Join(config.WorkDir, repo+".db")
	if err := os.WriteFile(listFile, []byte(repoPath+"\n"), 0o644); err != nil {
		fmt.Printf("  failed to write repo list: %v\n", err)
		return BenchmarkResult{Repository: repo, ColdTime: "ERROR", WarmTime: "ERROR", ExportTime: "ERROR"}
	}

	indexArgs := []string{"index", "--source", "list", "--query", listFile, "--db", snapshot}

	fmt.Printf("  Cold phase\n")
	cold := formatTimes(runBenchmark(config, indexArgs, "completed in", 1))

	fmt.Printf("  Warm phase (%d runs)\n", config.WarmRuns)
	warm := formatTimes(runBenchmark(config, indexArgs, "completed in", config.WarmRuns))

	fmt.Printf("  Export phase\n")
	exportArgs := []string{"export", "--db", snapshot, "--output", "parquet", "--output-file", filepath.Join(config.WorkDir, repo+".parquet")}
	export := formatTimes(runBenchmark(config, exportArgs, "", 1))

	fmt.Printf("  Cold time: %s, Warm average: %s, Export time: %s\n", cold, warm, export)

	return BenchmarkResult{
		Repository: repo,
		ColdTime:   cold,
		WarmTime:   warm,
		ExportTime: export,
	}
}

// runBenchmark executes a git-indexer command multiple times and returns the successful run times
func runBenchmark(config BenchmarkConfig, args []string, successPhrase string, numRuns int) []float64 {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("git-indexer", args...)
		cmd.Env = append(os.Environ(), "GIT_INDEXER_COLOR=no")

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && strings.Contains(string(output), successPhrase) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}
	return times
}

// formatTimes averages successful run times, or reports a timeout when there were none
func formatTimes(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/git_indexer_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repo", "cold_time", "warm_avg", "export_time"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.ColdTime, result.WarmTime, result.ExportTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-12s: Cold: %s, Warm: %s, Export: %s\n", result.Repository, result.ColdTime, result.WarmTime, result.ExportTime)
	}
}
