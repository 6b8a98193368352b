package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	invitepdf "github.com/evitely/go-invitepdf"
)

// renderJob is a single URL to capture and where to write it.
type renderJob struct {
	OutputPath string
	Request    invitepdf.RenderRequest
}

// renderResult holds the outcome of a single render.
type renderResult struct {
	URL        string
	OutputPath string
	ByteSize   int
	Err        error
	Duration   time.Duration
}

// renderBatch processes jobs concurrently using the service pool.
func renderBatch(ctx context.Context, pool Pool, jobs []renderJob) []renderResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	results := make([]renderResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc, err := pool.Acquire()
			if err != nil {
				for idx := range queue {
					results[idx] = renderResult{
						URL: jobs[idx].Request.URL,
						Err: fmt.Errorf("%w: %v", ErrServiceInit, err),
					}
				}
				return
			}
			defer pool.Release(svc)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = renderResult{
						URL: jobs[idx].Request.URL,
						Err: ctx.Err(),
					}
					continue
				}
				results[idx] = renderOne(ctx, svc, jobs[idx])
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// renderOne captures a single URL and writes the PDF.
func renderOne(ctx context.Context, svc Renderer, job renderJob) renderResult {
	start := time.Now()
	result := renderResult{
		URL:        job.Request.URL,
		OutputPath: job.OutputPath,
	}

	generated, err := svc.Generate(ctx, job.Request)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	outDir := filepath.Dir(job.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(job.OutputPath, generated.PDF, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWritePDF, err)
		result.Duration = time.Since(start)
		return result
	}

	result.ByteSize = generated.ByteSize
	result.Duration = time.Since(start)
	return result
}

// resultSummary holds the count of succeeded and failed renders.
type resultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed renders.
func countResults(results []renderResult) resultSummary {
	var summary resultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs render results and returns the failure count.
func printResults(results []renderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.URL, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d bytes, %v)\n",
				r.URL, r.OutputPath, r.ByteSize, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
