// Package crawl runs the background bulk-fetch loop: one scraper call per
// business day from a fixed start date up to today, persisting results
// idempotently.
package crawl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/juscash/djetracker/internal/publication"
	"github.com/juscash/djetracker/internal/scraper"
)

type Fetcher interface {
	FetchByDate(ctx context.Context, date time.Time) (*scraper.DayResult, error)
}

type Ingestor interface {
	Ingest(ctx context.Context, params publication.CreateParams) (bool, error)
}

type Config struct {
	// StartDate is the first gazette day ever fetched.
	StartDate time.Time
	// DayPause separates consecutive day fetches.
	DayPause time.Duration
	// ErrorPause replaces DayPause after a failed day.
	ErrorPause time.Duration
}

// Runner owns the bulk-fetch session. All session access goes through its
// mutex, so Start's idempotency check and the loop's progress updates cannot
// race.
type Runner struct {
	fetcher  Fetcher
	ingestor Ingestor
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	session Session
}

func NewRunner(fetcher Fetcher, ingestor Ingestor, cfg Config, logger *slog.Logger) *Runner {
	return &Runner{
		fetcher:  fetcher,
		ingestor: ingestor,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Snapshot returns a copy of the current session state.
func (r *Runner) Snapshot() Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.session
}

// Start launches the loop unless one is already active. It returns the
// session snapshot and whether a new run was started.
func (r *Runner) Start() (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session.Ativa {
		return r.session, false
	}

	start := r.cfg.StartDate
	end := r.now()
	totalDias := int(end.Sub(start).Hours()/24) + 1

	r.session = Session{
		Ativa:             true,
		DataInicio:        start.Format(sessionDateLayout),
		DataAtual:         start.Format(sessionDateLayout),
		DataFim:           end.Format(sessionDateLayout),
		TotalDias:         totalDias,
		UltimaAtualizacao: r.now(),
	}

	go r.run(start, end)

	return r.session, true
}

// Stop clears the active flag. The loop observes it before starting the next
// day; an in-flight scraper call is never aborted.
func (r *Runner) Stop() Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session.Ativa = false
	r.session.UltimaAtualizacao = r.now()

	return r.session
}

func (r *Runner) run(start, end time.Time) {
	// The loop deliberately uses its own context: a stop request takes
	// effect at the next day boundary, not mid-call.
	ctx := context.Background()

	r.logger.Info("busca automática iniciada",
		"inicio", start.Format(sessionDateLayout),
		"fim", end.Format(sessionDateLayout),
	)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !r.active() {
			r.logger.Info("busca automática interrompida")
			return
		}

		r.setCurrentDay(day)

		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			r.dayDone(0, nil)
			continue
		}

		found, err := r.processDay(ctx, day)
		r.dayDone(found, err)

		if err != nil {
			r.logger.Warn("falha ao processar dia",
				"dia", day.Format(sessionDateLayout), "error", err)
			time.Sleep(r.cfg.ErrorPause)

			continue
		}

		time.Sleep(r.cfg.DayPause)
	}

	r.finish()
}

// processDay fetches one gazette day and persists its records, returning how
// many were newly created.
func (r *Runner) processDay(ctx context.Context, day time.Time) (int, error) {
	res, err := r.fetcher.FetchByDate(ctx, day)
	if err != nil {
		return 0, err
	}

	if res.Skipped {
		r.logger.Info("dia pulado pelo scraper",
			"dia", day.Format(sessionDateLayout), "motivo", res.SkipReason)
		return 0, nil
	}

	found := 0

	for _, rec := range res.Records {
		created, err := r.ingestor.Ingest(ctx, rec.CreateParams(day))
		if err != nil {
			r.logger.Error("falha ao salvar publicação",
				"numeroProcesso", rec.NumeroProcesso, "error", err)
			continue
		}

		if created {
			found++
		}
	}

	return found, nil
}

func (r *Runner) active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.session.Ativa
}

func (r *Runner) setCurrentDay(day time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session.DataAtual = day.Format(sessionDateLayout)
	r.session.UltimaAtualizacao = r.now()
}

// dayDone counts the day as processed regardless of outcome; a failed day
// records its error but never aborts the run.
func (r *Runner) dayDone(found int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session.DiasProcessados++
	r.session.PublicacoesEncontradas += found
	r.session.UltimaAtualizacao = r.now()

	if err != nil {
		r.session.Erro = err.Error()
	}
}

func (r *Runner) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.session.Ativa {
		return
	}

	r.session.Ativa = false
	r.session.UltimaAtualizacao = r.now()

	r.logger.Info("busca automática concluída",
		"publicacoesEncontradas", r.session.PublicacoesEncontradas,
		"diasProcessados", r.session.DiasProcessados,
	)
}
