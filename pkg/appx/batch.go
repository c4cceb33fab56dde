package appx

import (
	"runtime"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/tileforge-io/tileforge/pkg/appx/source"
)

// Result is the outcome of one catalog entry's generation. A failed entry
// carries its error and never aborts siblings.
type Result struct {
	Key  string
	Path string
	Err  error
}

// GenerateAll renders every listed catalog key from one source, fanning out
// across a bounded worker pool. Results come back in key order.
func GenerateAll(sourcePath string, keys []string, opts Options, logger hclog.Logger) []Result {
	results := make([]Result, len(keys))
	if len(keys) == 0 {
		return results
	}

	// One parse up front surfaces source problems once instead of per key.
	probe, err := source.Load(sourcePath)
	if err != nil {
		for i, key := range keys {
			results[i] = Result{Key: key, Err: err}
		}
		return results
	}

	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(keys) {
		workers = len(keys)
	}

	logger.Info("🚀 Generating asset set",
		"source", sourcePath,
		"keys", len(keys),
		"workers", workers,
	)

	work := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Vector documents mutate while rendering, so concurrent
			// workers each parse their own copy. Rasters are immutable
			// and shared.
			src := probe
			var loadErr error
			if _, ok := probe.(*source.Vector); ok && workers > 1 {
				src, loadErr = source.Load(sourcePath)
			}

			for i := range work {
				if loadErr != nil {
					results[i] = Result{Key: keys[i], Err: loadErr}
					continue
				}
				path, err := renderTo(src, sourcePath, keys[i], opts, logger)
				results[i] = Result{Key: keys[i], Path: path, Err: err}
			}
		}()
	}

	for i := range keys {
		work <- i
	}
	close(work)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("❌ Asset generation failed", "key", r.Key, "error", r.Err)
		}
	}
	if failed == 0 {
		logger.Info("✅ Asset set complete", "written", len(results))
	} else {
		logger.Warn("⚠️ Asset set finished with failures",
			"written", len(results)-failed,
			"failed", failed,
		)
	}

	return results
}
