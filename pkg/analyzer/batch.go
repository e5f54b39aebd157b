package analyzer

import (
	"context"
	"runtime"
	"sync"

	"github.com/bearkit/bearkit/pkg/enum"
	"github.com/bearkit/bearkit/pkg/store"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stats summarizes an AnalyzeAll run.
type Stats struct {
	Files       int
	Cached      int
	Skipped     int // files whose analysis failed unexpectedly
	Diagnostics int
}

type job struct {
	content []byte
	blob    types.BlobID
	prov    types.Provenance
}

// AnalyzeAll analyzes every file e yields and passes each report to sink.
// Problems in a file become diagnostics; only enumeration, store, sink and
// context errors stop the run.
func (a *Analyzer) AnalyzeAll(ctx context.Context, e enum.Enumerator, sink Sink) (Stats, error) {
	workers := a.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		stats  Stats
		sinkMu sync.Mutex
	)
	deliver := func(rep *FileReport) error {
		sinkMu.Lock()
		defer sinkMu.Unlock()
		stats.Files++
		stats.Diagnostics += len(rep.Diagnostics)
		if rep.Cached {
			stats.Cached++
		}
		if sink == nil {
			return nil
		}
		return sink(rep)
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan job, workers*2)

	g.Go(func() error {
		defer close(jobs)
		return e.Enumerate(ctx, func(content []byte, blob types.BlobID, prov types.Provenance) error {
			select {
			case jobs <- job{content: content, blob: blob, prov: prov}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	for range workers {
		g.Go(func() error {
			for j := range jobs {
				rep, err := a.analyzeJob(j)
				if err != nil {
					if errors.Is(err, errStore) {
						return err
					}
					a.log.Warn("skipping file", zap.String("path", j.prov.Path()), zap.Error(err))
					sinkMu.Lock()
					stats.Skipped++
					sinkMu.Unlock()
					continue
				}
				if err := deliver(rep); err != nil {
					return err
				}
			}
			return nil
		})
	}

	err := g.Wait()
	return stats, err
}

// errStore marks store failures, which abort AnalyzeAll.
var errStore = errors.New("store failure")

// analyzeJob analyzes one blob, consulting and updating the store.
func (a *Analyzer) analyzeJob(j job) (*FileReport, error) {
	path := j.prov.Path()
	st := a.cfg.Store

	if st != nil && a.cfg.Incremental {
		seen, err := st.BlobExists(j.blob)
		if err != nil {
			return nil, errors.Mark(err, errStore)
		}
		if seen {
			if err := st.AddProvenance(j.blob, j.prov); err != nil {
				return nil, errors.Mark(err, errStore)
			}
			diags, err := st.GetDiagnostics(j.blob)
			if err != nil {
				return nil, errors.Mark(err, errStore)
			}
			// Stored diagnostics carry the path the blob was first seen at.
			for i, d := range diags {
				c := *d
				c.File, c.Range.File = path, path
				diags[i] = &c
			}
			a.log.Debug("blob already analyzed", zap.String("path", path), zap.Stringer("blob", j.blob))
			return &FileReport{Path: path, BlobID: j.blob, Diagnostics: diags, Cached: true}, nil
		}
	}

	rep, err := a.AnalyzeFile(path, j.content)
	if err != nil {
		return nil, err
	}

	if st != nil {
		if err := record(st, j, rep); err != nil {
			return nil, errors.Mark(err, errStore)
		}
	}
	return rep, nil
}

// record stores the blob, where it came from and its diagnostics.
func record(st store.Store, j job, rep *FileReport) error {
	if err := st.AddBlob(j.blob, int64(len(j.content))); err != nil {
		return err
	}
	if err := st.AddProvenance(j.blob, j.prov); err != nil {
		return err
	}
	for _, d := range rep.Diagnostics {
		if err := st.AddDiagnostic(d); err != nil {
			return err
		}
	}
	return nil
}
