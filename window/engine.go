package window

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/vegasq/parwin/internal/logger"
)

// DefaultBatchSize is the number of rows evaluated between cancellation checks
const DefaultBatchSize = 1024

// Config controls engine resources
type Config struct {
	Workers   int // Partitions evaluated in parallel (<= 0 = GOMAXPROCS)
	BatchSize int // Rows between cancellation checks (<= 0 = DefaultBatchSize)
}

// Recorder receives one observation per evaluation
type Recorder interface {
	ObserveEvaluation(status string, rows, partitions int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveEvaluation(string, int, int, time.Duration) {}

// Engine evaluates window expressions over row sources. Partitions are independent
// and are evaluated in parallel on a bounded worker pool; an Engine is safe for
// concurrent use.
type Engine struct {
	cfg  Config
	log  *slog.Logger
	cmp  *Comparators
	rec  Recorder
	pool *ants.Pool // nil when running single-threaded
}

// Option configures an Engine
type Option func(*Engine)

// WithConfig replaces the engine configuration
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithWorkers sets the number of partition workers
func WithWorkers(n int) Option {
	return func(e *Engine) { e.cfg.Workers = n }
}

// WithBatchSize sets the number of rows between cancellation checks
func WithBatchSize(n int) Option {
	return func(e *Engine) { e.cfg.BatchSize = n }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithComparators sets the comparator registry used for ordering and MIN/MAX
func WithComparators(c *Comparators) Option {
	return func(e *Engine) { e.cmp = c }
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.rec = r }
}

// New creates an engine. Call Close to release its workers.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.cfg.Workers <= 0 {
		e.cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if e.cfg.BatchSize <= 0 {
		e.cfg.BatchSize = DefaultBatchSize
	}
	if e.log == nil {
		e.log = logger.Get()
	}
	if e.cmp == nil {
		e.cmp = NewComparators()
	}
	if e.rec == nil {
		e.rec = nopRecorder{}
	}

	if e.cfg.Workers > 1 {
		pool, err := ants.NewPool(e.cfg.Workers)
		if err != nil {
			return nil, fmt.Errorf("failed to create worker pool: %w", err)
		}
		e.pool = pool
	}

	return e, nil
}

// Close releases the worker pool
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Evaluate is a convenience wrapper running exprs on a default engine
func Evaluate(ctx context.Context, src RowSource, exprs []Expr) (*ResultSet, error) {
	e, err := New()
	if err != nil {
		return nil, err
	}
	defer e.Close()
	return e.Evaluate(ctx, src, exprs)
}

// Evaluate computes every expression for every row of src. The result holds the
// source columns followed by one column per expression, in request order.
//
// Invalid expressions are reported as *ConfigError before any row is read; values
// that cannot be evaluated fail the whole evaluation with a *DataError. When ctx is
// cancelled the partially filled result set is returned together with the error:
// partitions that completed hold their values, all other slots are NULL.
func (e *Engine) Evaluate(ctx context.Context, src RowSource, exprs []Expr) (*ResultSet, error) {
	started := time.Now()
	log := e.log.With("run_id", uuid.NewString())

	plans, blocks, err := planExprs(src, exprs)
	if err != nil {
		e.rec.ObserveEvaluation("config_error", 0, 0, time.Since(started))
		return nil, err
	}
	rs := newResultSet(src, plans)

	var tasks []task
	for _, b := range blocks {
		parts := partitionRows(src, b.partCols)
		for _, rows := range parts {
			tasks = append(tasks, task{block: b, rows: rows})
		}
		log.Debug("window block partitioned", "expressions", len(b.plans), "partitions", len(parts))
	}

	if err := e.run(ctx, src, tasks, rs); err != nil {
		elapsed := time.Since(started)
		if ctx.Err() != nil {
			e.rec.ObserveEvaluation("cancelled", src.Len(), len(tasks), elapsed)
			log.Warn("window evaluation cancelled", "error", err, "duration", elapsed)
			return rs, err
		}
		e.rec.ObserveEvaluation("error", src.Len(), len(tasks), elapsed)
		log.Debug("window evaluation failed", "error", err, "duration", elapsed)
		return nil, err
	}

	elapsed := time.Since(started)
	e.rec.ObserveEvaluation("ok", src.Len(), len(tasks), elapsed)
	log.Info("window evaluation finished",
		"rows", src.Len(),
		"expressions", len(exprs),
		"partitions", len(tasks),
		"duration", elapsed,
	)
	return rs, nil
}

// task is one partition of one block
type task struct {
	block *block
	rows  []int
}

// run evaluates all tasks, in parallel when the engine has a pool. The first error
// cancels the remaining tasks.
func (e *Engine) run(ctx context.Context, src RowSource, tasks []task, rs *ResultSet) error {
	if e.pool == nil || len(tasks) < 2 {
		for _, t := range tasks {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("evaluation cancelled: %w", err)
			}
			if err := e.evalPartition(ctx, src, t, rs); err != nil {
				return err
			}
		}
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for _, t := range tasks {
		if runCtx.Err() != nil {
			break
		}
		t := t
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					e.log.Error("partition worker panic", "panic", r)
					fail(fmt.Errorf("panic evaluating partition: %v", r))
				}
			}()
			if runCtx.Err() != nil {
				return
			}
			if err := e.evalPartition(runCtx, src, t, rs); err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("failed to submit partition: %w", err))
			break
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("evaluation cancelled: %w", err)
	}
	return firstErr
}

// evalPartition orders one partition, computes its peer groups once and evaluates
// every expression of the block over it. Outputs are committed only after the whole
// partition succeeded.
func (e *Engine) evalPartition(ctx context.Context, src RowSource, t task, rs *ResultSet) error {
	b := t.block
	p := &Partition{src: src, rows: t.rows}

	if err := orderPartition(p, b.order, e.cmp); err != nil {
		return dataError(b.plans[0], err)
	}
	peers, err := computePeerGroups(p, b.order, e.cmp)
	if err != nil {
		return dataError(b.plans[0], err)
	}

	outputs := make([][]interface{}, len(b.plans))
	for k, plan := range b.plans {
		st, err := newExprState(plan, p, peers, b.rangeKey(), e.cmp)
		if err != nil {
			return dataError(plan, err)
		}

		values := make([]interface{}, p.Len())
		ec := EvaluationContext{Partition: p, Peers: peers}
		for i := range values {
			if i > 0 && i%e.cfg.BatchSize == 0 {
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("evaluation cancelled: %w", err)
				}
			}
			ec.Index = i
			v, err := st.eval(&ec)
			if err != nil {
				return dataError(plan, err)
			}
			values[i] = v
		}
		outputs[k] = values
	}

	for k, plan := range b.plans {
		rs.commit(plan.out, p, outputs[k])
	}
	return nil
}

// dataError attributes an evaluation failure to an expression
func dataError(plan *exprPlan, err error) error {
	var re *rowError
	if errors.As(err, &re) {
		return &DataError{Expr: plan.index, Name: plan.name, Row: re.pos, Err: re.err}
	}
	return &DataError{Expr: plan.index, Name: plan.name, Row: -1, Err: err}
}
