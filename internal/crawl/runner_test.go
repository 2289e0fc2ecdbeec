package crawl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juscash/djetracker/internal/publication"
	"github.com/juscash/djetracker/internal/scraper"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls []time.Time
	fn    func(date time.Time) (*scraper.DayResult, error)
}

func (f *fakeFetcher) FetchByDate(_ context.Context, date time.Time) (*scraper.DayResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, date)
	f.mu.Unlock()

	if f.fn != nil {
		return f.fn(date)
	}

	return &scraper.DayResult{}, nil
}

func (f *fakeFetcher) fetchedDays() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]time.Time(nil), f.calls...)
}

type fakeIngestor struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (i *fakeIngestor) Ingest(_ context.Context, params publication.CreateParams) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.err != nil {
		return false, i.err
	}

	if i.seen == nil {
		i.seen = map[string]bool{}
	}

	if i.seen[params.NumeroProcesso] {
		return false, nil
	}

	i.seen[params.NumeroProcesso] = true

	return true, nil
}

func testConfig(start time.Time) Config {
	return Config{
		StartDate:  start,
		DayPause:   time.Millisecond,
		ErrorPause: 3 * time.Millisecond,
	}
}

func newTestRunner(f Fetcher, i Ingestor, start, end time.Time) *Runner {
	r := NewRunner(f, i, testConfig(start), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.now = func() time.Time { return end }

	return r
}

func waitDone(t *testing.T, r *Runner) Session {
	t.Helper()

	require.Eventually(t, func() bool {
		return !r.Snapshot().Ativa
	}, 2*time.Second, time.Millisecond)

	return r.Snapshot()
}

func TestRunner_SkipsWeekends(t *testing.T) {
	// Friday 2025-03-21 through Monday 2025-03-24.
	start := time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC)

	fetcher := &fakeFetcher{}
	runner := newTestRunner(fetcher, &fakeIngestor{}, start, end)

	_, started := runner.Start()
	require.True(t, started)

	session := waitDone(t, runner)

	// All four days count as processed, but only the two business days hit
	// the scraper.
	assert.Equal(t, 4, session.DiasProcessados)

	days := fetcher.fetchedDays()
	require.Len(t, days, 2)
	assert.Equal(t, time.Friday, days[0].Weekday())
	assert.Equal(t, time.Monday, days[1].Weekday())
}

func TestRunner_CountsOnlyNewRecords(t *testing.T) {
	day := time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC) // Tuesday

	fetcher := &fakeFetcher{
		fn: func(time.Time) (*scraper.DayResult, error) {
			return &scraper.DayResult{Records: []scraper.RawRecord{
				{NumeroProcesso: "111", Autores: "João", Conteudo: "a"},
				{NumeroProcesso: "222", Autores: "Maria", Conteudo: "b"},
				{NumeroProcesso: "111", Autores: "João", Conteudo: "a"}, // duplicate
			}}, nil
		},
	}

	runner := newTestRunner(fetcher, &fakeIngestor{}, day, day)

	_, started := runner.Start()
	require.True(t, started)

	session := waitDone(t, runner)
	assert.Equal(t, 2, session.PublicacoesEncontradas)
	assert.Equal(t, 1, session.DiasProcessados)
	assert.Empty(t, session.Erro)
}

func TestRunner_DayErrorIsRecoverable(t *testing.T) {
	start := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC) // Monday
	end := start.AddDate(0, 0, 1)                         // Tuesday

	fetcher := &fakeFetcher{
		fn: func(date time.Time) (*scraper.DayResult, error) {
			if date.Equal(start) {
				return nil, errors.New("connection refused")
			}

			return &scraper.DayResult{Records: []scraper.RawRecord{
				{NumeroProcesso: "333", Autores: "José", Conteudo: "c"},
			}}, nil
		},
	}

	runner := newTestRunner(fetcher, &fakeIngestor{}, start, end)

	_, started := runner.Start()
	require.True(t, started)

	session := waitDone(t, runner)

	// The failed day is still counted, its error is kept in the snapshot,
	// and the following day ran normally.
	assert.Equal(t, 2, session.DiasProcessados)
	assert.Equal(t, 1, session.PublicacoesEncontradas)
	assert.Contains(t, session.Erro, "connection refused")
	assert.Len(t, fetcher.fetchedDays(), 2)
}

func TestRunner_StartWhileActiveIsNoOp(t *testing.T) {
	start := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	release := make(chan struct{})
	fetcher := &fakeFetcher{
		fn: func(time.Time) (*scraper.DayResult, error) {
			<-release
			return &scraper.DayResult{}, nil
		},
	}

	runner := newTestRunner(fetcher, &fakeIngestor{}, start, end)

	first, started := runner.Start()
	require.True(t, started)
	assert.True(t, first.Ativa)
	assert.Equal(t, "17/03/2025", first.DataInicio)

	second, started := runner.Start()
	assert.False(t, started)
	assert.True(t, second.Ativa)

	runner.Stop()
	close(release)
	waitDone(t, runner)
}

func TestRunner_StopHaltsBeforeNextDay(t *testing.T) {
	start := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 60)

	firstCall := make(chan struct{})
	release := make(chan struct{})

	var once sync.Once

	fetcher := &fakeFetcher{
		fn: func(time.Time) (*scraper.DayResult, error) {
			once.Do(func() { close(firstCall) })
			<-release
			return &scraper.DayResult{}, nil
		},
	}

	runner := newTestRunner(fetcher, &fakeIngestor{}, start, end)

	_, started := runner.Start()
	require.True(t, started)

	<-firstCall

	before := runner.Snapshot()
	session := runner.Stop()
	assert.False(t, session.Ativa)
	assert.False(t, session.UltimaAtualizacao.Before(before.UltimaAtualizacao))

	// Let the in-flight day finish; no further day may start.
	close(release)
	waitDone(t, runner)

	assert.Len(t, fetcher.fetchedDays(), 1)
	assert.Equal(t, 1, runner.Snapshot().DiasProcessados)
}

func TestRunner_TotalDias(t *testing.T) {
	start := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC)

	runner := newTestRunner(&fakeFetcher{}, &fakeIngestor{}, start, end)

	session, started := runner.Start()
	require.True(t, started)
	assert.Equal(t, 5, session.TotalDias)
	assert.Equal(t, "17/03/2025", session.DataInicio)
	assert.Equal(t, "21/03/2025", session.DataFim)

	waitDone(t, runner)
}
