package varchange

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// ProgressFunc is called after each method pair is analyzed.
type ProgressFunc func()

// AnalyzeAll analyzes independent method pairs on a bounded worker pool.
// Results are returned in input order. If workers is <= 0, NumCPU workers
// are used. Inputs must not share operations, since scope derivation
// writes to the scopes of each body.
func (a *Analyzer) AnalyzeAll(ctx context.Context, inputs []Input, workers int, onProgress ProgressFunc) ([]*Analysis, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]*Analysis, len(inputs))
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx).WithCancelOnError()
	for i, in := range inputs {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = a.Analyze(in)
			if onProgress != nil {
				onProgress()
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
