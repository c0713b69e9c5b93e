package engine

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tolgaer/punchwatch/internal/clock"
)

// ErrSourceMissing is returned by a Source whose backing document is not
// currently present. The pipeline pauses and resumes when it reappears.
var ErrSourceMissing = errors.New("timesheet source missing")

// Source is the external document the pipeline observes.
type Source interface {
	// Rows returns the ordered entries, or ErrSourceMissing.
	Rows() ([]LogEntry, error)
	// Watch invokes onChange (possibly from another goroutine, possibly
	// batched) on structural change and returns a stop function.
	Watch(onChange func()) (stop func(), err error)
}

// ConfigFunc supplies the current thresholds; reread on every tick so
// settings changes take effect without restarting the pipeline.
type ConfigFunc func() Config

const (
	defaultDebounce = 200 * time.Millisecond
	defaultFallback = time.Minute
)

// Pipeline coordinates recomputation: change-driven with a debounce window,
// plus a fallback ticker so the summary stays fresh even without changes.
// All recomputes run on one goroutine, so Parse → Aggregate → Publish → Gate
// always execute in strict sequence and later results supersede earlier ones.
type Pipeline struct {
	src  Source
	cell *SummaryCell
	gate *AlertGate
	clk  clock.Clock
	cfg  ConfigFunc
	log  *slog.Logger

	debounce time.Duration
	fallback time.Duration

	changes   chan struct{}
	done      chan struct{}
	stopWatch func()
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

func NewPipeline(src Source, cell *SummaryCell, gate *AlertGate, clk clock.Clock, cfg ConfigFunc, log *slog.Logger) *Pipeline {
	return &Pipeline{
		src:      src,
		cell:     cell,
		gate:     gate,
		clk:      clk,
		cfg:      cfg,
		log:      log,
		debounce: defaultDebounce,
		fallback: defaultFallback,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start subscribes to the source and begins the recompute loop. An initial
// recompute runs before any trigger so consumers have a summary immediately.
func (p *Pipeline) Start() error {
	stop, err := p.src.Watch(p.onChange)
	if err != nil {
		return err
	}
	p.stopWatch = stop

	p.wg.Add(1)
	go p.loop()
	return nil
}

// Stop tears down the watcher, the debounce timer and the fallback ticker.
// It blocks until the loop exits; no recompute runs after Stop returns.
func (p *Pipeline) Stop() {
	p.stopOnce.Do(func() {
		if p.stopWatch != nil {
			p.stopWatch()
		}
		close(p.done)
		p.wg.Wait()
	})
}

// onChange coalesces change bursts into a single pending signal.
func (p *Pipeline) onChange() {
	select {
	case p.changes <- struct{}{}:
	default:
	}
}

func (p *Pipeline) loop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.fallback)
	defer ticker.Stop()

	// Debounce timer starts disarmed.
	debounce := time.NewTimer(p.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	p.recompute()

	for {
		select {
		case <-p.done:
			return
		case <-p.changes:
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(p.debounce)
		case <-debounce.C:
			p.recompute()
		case <-ticker.C:
			p.recompute()
		}
	}
}

func (p *Pipeline) recompute() {
	rows, err := p.src.Rows()
	if err != nil {
		if errors.Is(err, ErrSourceMissing) {
			p.log.Debug("source missing, recompute skipped")
		} else {
			p.log.Warn("read source", "err", err)
		}
		return
	}

	s := Aggregate(rows)
	if s.Anomalies > 0 {
		p.log.Warn("discarded implausible intervals", "count", s.Anomalies)
	}
	p.cell.Publish(s)

	cfg := p.cfg()
	p.gate.Evaluate(s.Totals(p.clk.Now(), cfg).TotalMinutes, cfg)
}
