// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"vpdesign/internal/anchor"
	"vpdesign/internal/design"
)

var (
	// ErrConfig marks failures detected before any viewpoint is built.
	ErrConfig = errors.New("invalid configuration")
	// ErrIO marks failures reading reference data; they abort the batch.
	ErrIO = errors.New("reference data I/O")
)

// Config controls the batch driver.
type Config struct {
	Threads  int // concurrent viewpoint builds per chromosome (>=1)
	Approach design.Approach
	Params   design.Params
	Log      logrus.FieldLogger
	// Progress, if set, is called after every anchor with the number of
	// anchors finished so far. Calls are serialised.
	Progress func(done, total int, label string)
}

// Request is the reference data and anchors of one run.
type Request struct {
	Genome       design.Genome
	Alignability MapSource
	Anchors      []anchor.Anchor
}

// Unresolved records an anchor for which no fragment could be selected.
type Unresolved struct {
	Anchor anchor.Anchor
	Reason string
	// Built is true when a viewpoint exists for the anchor but has no
	// selected fragment.
	Built bool
}

// Result holds the viewpoints in anchor input order.
type Result struct {
	ViewPoints []*design.ViewPoint
	Unresolved []Unresolved
}

type unresolvedAt struct {
	idx int
	u   Unresolved
}

// Run designs a viewpoint for every anchor in req. Per-anchor failures are
// reported in Result.Unresolved and do not stop the batch. Configuration
// errors wrap ErrConfig and reference read errors wrap ErrIO. A cancelled run
// returns the viewpoints completed so far together with the context error.
func Run(ctx context.Context, cfg Config, req Request) (Result, error) {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if err := cfg.Params.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if req.Genome == nil || req.Alignability == nil {
		return Result{}, fmt.Errorf("%w: genome and alignability data are required", ErrConfig)
	}

	if cfg.Approach == design.Simple && cfg.Params.MeanFragmentLength == 0 {
		mean, err := EstimateMeanFragmentLength(ctx, req.Genome, chromsOf(req.Anchors), cfg.Params.Enzymes)
		if err != nil {
			return Result{}, err
		}
		cfg.Params.MeanFragmentLength = mean
		log.WithField("mean_fragment_length", mean).Info("estimated mean restriction fragment length")
	}

	total := len(req.Anchors)
	slots := make([]*design.ViewPoint, total)
	var (
		mu         sync.Mutex
		unresolved []unresolvedAt
		done       atomic.Int64
	)
	report := func(i int, reason string, built bool) {
		mu.Lock()
		unresolved = append(unresolved, unresolvedAt{i, Unresolved{Anchor: req.Anchors[i], Reason: reason, Built: built}})
		mu.Unlock()
	}
	var progressMu sync.Mutex
	tick := func(label string) {
		n := int(done.Add(1))
		if cfg.Progress != nil {
			progressMu.Lock()
			cfg.Progress(n, total, label)
			progressMu.Unlock()
		}
	}

	groups := map[string]anchor.Group{}
	for _, g := range anchor.GroupByChrom(req.Anchors) {
		groups[g.Chrom] = g
	}

	var runErr error
feed:
	for len(groups) > 0 {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		m, err := req.Alignability.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			runErr = fmt.Errorf("%w: %w", ErrIO, err)
			break
		}
		grp, ok := groups[m.Chrom]
		if !ok {
			continue
		}
		delete(groups, m.Chrom)

		clog := log.WithFields(logrus.Fields{"chrom": m.Chrom, "anchors": len(grp.Members)})
		chromLen, err := req.Genome.Length(m.Chrom)
		if err != nil {
			clog.WithError(err).Warn("chromosome missing from genome")
			for _, i := range grp.Members {
				report(i, "chromosome not in genome", false)
				tick(req.Anchors[i].Name)
			}
			continue
		}
		if cs, ok := req.Alignability.(chromSizer); ok {
			if n, ok := cs.ChromLength(m.Chrom); ok && n != chromLen {
				clog.WithFields(logrus.Fields{"genome_length": chromLen, "chrom_info_length": n}).
					Warn("chromosome length differs between genome and chromInfo; are they the same assembly?")
			}
		}
		clog.Debug("designing viewpoints")

		dc := design.Context{Genome: req.Genome, ChromLength: chromLen, Map: m, Params: cfg.Params, Log: clog}
		var g errgroup.Group
		g.SetLimit(cfg.Threads)
		for _, i := range grp.Members {
			i := i
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				a := req.Anchors[i]
				vp, err := design.Build(dc, a, cfg.Approach)
				switch {
				case err != nil:
					report(i, err.Error(), false)
				case !vp.Resolved():
					slots[i] = vp
					report(i, "no selectable fragment", true)
				default:
					slots[i] = vp
				}
				tick(a.Name)
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			runErr = err
			break feed
		}
	}

	if runErr == nil {
		for _, grp := range groups {
			for _, i := range grp.Members {
				report(i, "chromosome not in alignability data", false)
				tick(req.Anchors[i].Name)
			}
		}
	}

	var res Result
	for _, vp := range slots {
		if vp != nil {
			res.ViewPoints = append(res.ViewPoints, vp)
		}
	}
	sort.Slice(unresolved, func(a, b int) bool { return unresolved[a].idx < unresolved[b].idx })
	for _, u := range unresolved {
		res.Unresolved = append(res.Unresolved, u.u)
	}
	return res, runErr
}

func chromsOf(list []anchor.Anchor) []string {
	var out []string
	for _, g := range anchor.GroupByChrom(list) {
		out = append(out, g.Chrom)
	}
	return out
}
