package Hydro2D

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gohydro/EOS"
	"github.com/notargets/gohydro/geometry2D"
	"github.com/notargets/gohydro/types"
	"github.com/notargets/gohydro/utils"
)

var (
	ErrUnmatchedEdge   = errors.New("no condition matched edge")
	ErrInvalidTopology = errors.New("invalid edge topology")
)

// A Condition decides whether its rule owns an edge. aux is passed on to the rule's Action.
type Condition interface {
	Classify(edge geometry2D.Edge, tess geometry2D.Tessellation,
		cells []types.ComputationalCell) (match, aux bool)
}

// An Action computes the transported amounts through an edge its Condition matched
type Action interface {
	Apply(edge geometry2D.Edge, tess geometry2D.Tessellation, pointVelocities []r2.Vec,
		cells []types.ComputationalCell, eos EOS.EquationOfState, aux bool) (types.Extensive, error)
}

type Rule struct {
	Name      string
	Condition Condition
	Action    Action
}

/*
ConditionActionSequence evaluates the flux through every edge of a tessellation. Each edge
is handed to the first rule whose Condition matches it. The rule list is fixed at
construction.
*/
type ConditionActionSequence struct {
	rules          []Rule
	ParallelDegree int
	logger         *zap.Logger
	metrics        *FluxMetrics
}

type Option func(cas *ConditionActionSequence)

// WithParallelDegree evaluates edges in that many concurrent buckets, zero uses every CPU
func WithParallelDegree(np int) Option {
	return func(cas *ConditionActionSequence) {
		if np == 0 {
			np = runtime.NumCPU()
		}
		cas.ParallelDegree = np
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(cas *ConditionActionSequence) {
		if logger != nil {
			cas.logger = logger
		}
	}
}

func WithMetrics(fm *FluxMetrics) Option {
	return func(cas *ConditionActionSequence) {
		cas.metrics = fm
	}
}

func NewConditionActionSequence(rules []Rule, opts ...Option) (cas *ConditionActionSequence, err error) {
	if len(rules) == 0 {
		err = fmt.Errorf("condition action sequence needs at least one rule")
		return
	}
	cas = &ConditionActionSequence{
		rules:          make([]Rule, len(rules)),
		ParallelDegree: 1,
		logger:         zap.NewNop(),
	}
	copy(cas.rules, rules)
	for i, rule := range cas.rules {
		if rule.Condition == nil || rule.Action == nil {
			cas, err = nil, fmt.Errorf("rule %d (%s) is missing its condition or action", i, rule.Name)
			return
		}
		if rule.Name == "" {
			cas.rules[i].Name = fmt.Sprintf("rule%d", i)
		}
	}
	for _, opt := range opts {
		opt(cas)
	}
	return
}

// Rules returns a copy of the rule list in evaluation order
func (cas *ConditionActionSequence) Rules() (rules []Rule) {
	rules = make([]Rule, len(cas.rules))
	copy(rules, cas.rules)
	return
}

/*
Calculate returns one Extensive per edge, aligned with tess.GetAllEdges(). The existing
extensives, the cache, time and dt are accepted for interface compatibility with the
integrator and are not used. The first edge without a matching rule, or the first failing
rule, stops the evaluation and its error is returned.
*/
func (cas *ConditionActionSequence) Calculate(tess geometry2D.Tessellation, pointVelocities []r2.Vec,
	cells []types.ComputationalCell, _ []types.Extensive, _ *geometry2D.CacheData,
	eos EOS.EquationOfState, _, _ float64) (fluxes []types.Extensive, err error) {
	var (
		start  = time.Now()
		edges  = tess.GetAllEdges()
		Nedge  = len(edges)
		NP     = cas.ParallelDegree
		tally  = make([]int, len(cas.rules))
		PointN = tess.GetPointNo()
	)
	if len(cells) < PointN {
		err = fmt.Errorf("%w: %d cells for %d mesh points", ErrInvalidTopology, len(cells), PointN)
		return
	}
	fluxes = make([]types.Extensive, Nedge)
	if NP > Nedge {
		NP = Nedge
	}
	if NP <= 1 {
		err = cas.evaluate(0, Nedge, edges, tess, pointVelocities, cells, eos, fluxes, tally)
	} else {
		err = cas.evaluateParallel(NP, edges, tess, pointVelocities, cells, eos, fluxes, tally)
	}
	cas.record(tally, time.Since(start), err)
	if err != nil {
		fluxes = nil
		return
	}
	cas.logger.Debug("flux evaluation",
		zap.Int("edges", Nedge),
		zap.Int("parallelDegree", NP),
		zap.Duration("elapsed", time.Since(start)))
	return
}

func (cas *ConditionActionSequence) evaluate(kMin, kMax int, edges []geometry2D.Edge,
	tess geometry2D.Tessellation, pointVelocities []r2.Vec, cells []types.ComputationalCell,
	eos EOS.EquationOfState, fluxes []types.Extensive, tally []int) (err error) {
	for k := kMin; k < kMax; k++ {
		var (
			edge    = edges[k]
			matched bool
		)
		for r, rule := range cas.rules {
			match, aux := rule.Condition.Classify(edge, tess, cells)
			if !match {
				continue
			}
			if fluxes[k], err = rule.Action.Apply(edge, tess, pointVelocities, cells, eos, aux); err != nil {
				err = fmt.Errorf("edge %d, rule %s: %w", k, rule.Name, err)
				return
			}
			tally[r]++
			matched = true
			break
		}
		if !matched {
			err = fmt.Errorf("%w: edge %d with neighbors %v", ErrUnmatchedEdge, k, edge.Neighbors)
			return
		}
	}
	return
}

/*
evaluateParallel splits the edges into NP contiguous buckets. Each bucket writes only its
own range of fluxes, and the reported error is the one from the lowest bucket, which is
the error a serial pass would have stopped at.
*/
func (cas *ConditionActionSequence) evaluateParallel(NP int, edges []geometry2D.Edge,
	tess geometry2D.Tessellation, pointVelocities []r2.Vec, cells []types.ComputationalCell,
	eos EOS.EquationOfState, fluxes []types.Extensive, tally []int) (err error) {
	var (
		pm         = utils.NewPartitionMap(NP, len(edges))
		bucketErrs = make([]error, NP)
		tallies    = make([][]int, NP)
		g          errgroup.Group
	)
	for np := 0; np < NP; np++ {
		np := np
		tallies[np] = make([]int, len(cas.rules))
		g.Go(func() error {
			kMin, kMax := pm.GetBucketRange(np)
			bucketErrs[np] = cas.evaluate(kMin, kMax, edges, tess, pointVelocities, cells, eos,
				fluxes, tallies[np])
			return bucketErrs[np]
		})
	}
	if err = g.Wait(); err != nil {
		for _, bErr := range bucketErrs {
			if bErr != nil {
				err = bErr
				break
			}
		}
	}
	for np := 0; np < NP; np++ {
		for r, count := range tallies[np] {
			tally[r] += count
		}
	}
	return
}

func (cas *ConditionActionSequence) record(tally []int, elapsed time.Duration, err error) {
	if cas.metrics == nil {
		return
	}
	for r, count := range tally {
		cas.metrics.EdgesEvaluated.WithLabelValues(cas.rules[r].Name).Add(float64(count))
	}
	cas.metrics.Evaluations.Inc()
	if err != nil {
		cas.metrics.Failures.Inc()
	}
	cas.metrics.Duration.Observe(elapsed.Seconds())
}
