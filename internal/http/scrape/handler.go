// Package scrape exposes the bulk-fetch session endpoints and the direct
// scraper trigger.
package scrape

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/juscash/djetracker/internal/crawl"
	"github.com/juscash/djetracker/internal/http/api"
	"github.com/juscash/djetracker/internal/publication"
	"github.com/juscash/djetracker/internal/scraper"
)

type Handler struct {
	runner  *crawl.Runner
	scraper *scraper.Client
	pubs    *publication.Service
}

func NewHandler(runner *crawl.Runner, scraperClient *scraper.Client, pubs *publication.Service) *Handler {
	return &Handler{runner: runner, scraper: scraperClient, pubs: pubs}
}

// BuscaRoutes registers the busca-automatica session endpoints.
func (h *Handler) BuscaRoutes(r chi.Router) {
	r.Post("/iniciar", h.start)
	r.Get("/status", h.status)
	r.Post("/parar", h.stop)
}

// ScraperRoutes registers the direct trigger and store statistics endpoints.
func (h *Handler) ScraperRoutes(r chi.Router) {
	r.Post("/run", h.run)
	r.Get("/status", h.stats)
	r.Post("/busca-personalizada", h.customSearch)
	r.Get("/progresso-busca", h.searchProgress)
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	session, started := h.runner.Start()
	if !started {
		api.JSON(w, http.StatusOK, api.Response{
			Success: false,
			Error:   "Busca automática já está em andamento",
			Data:    session,
		})

		return
	}

	api.OKMessage(w, "Busca automática iniciada", session)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	api.OK(w, h.runner.Snapshot())
}

func (h *Handler) stop(w http.ResponseWriter, r *http.Request) {
	api.OKMessage(w, "Busca automática interrompida", h.runner.Stop())
}

type runRequest struct {
	DaysBack int `json:"daysBack"`
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	req := runRequest{DaysBack: 7}

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.Fail(w, http.StatusBadRequest, "Dados inválidos")
			return
		}
	}

	if req.DaysBack < 1 || req.DaysBack > 30 {
		api.Fail(w, http.StatusBadRequest, "daysBack deve estar entre 1 e 30")
		return
	}

	stats, err := h.scraper.Run(r.Context(), req.DaysBack)
	if err != nil {
		api.Fail(w, http.StatusServiceUnavailable, "Erro ao conectar com o scraper")
		return
	}

	api.OKMessage(w, "Scraper executado com sucesso", stats)
}

type customSearchRequest struct {
	Termos     string `json:"termos"`
	DataInicio string `json:"dataInicio"`
	DataFim    string `json:"dataFim"`
}

type customSearchResponse struct {
	TermosBuscados         string `json:"termosBuscados"`
	Periodo                string `json:"periodo"`
	PublicacoesEncontradas int    `json:"publicacoesEncontradas"`
	PublicacoesSalvas      int    `json:"publicacoesSalvas"`
	TempoExecucao          string `json:"tempoExecucao,omitempty"`
}

func (h *Handler) customSearch(w http.ResponseWriter, r *http.Request) {
	var req customSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	if req.Termos == "" || req.DataInicio == "" || req.DataFim == "" {
		api.Fail(w, http.StatusBadRequest, "Termos de busca, data de início e data fim são obrigatórios")
		return
	}

	result, err := h.scraper.CustomSearch(r.Context(), req.Termos, req.DataInicio, req.DataFim)
	if err != nil {
		api.Fail(w, http.StatusServiceUnavailable, "Erro ao conectar com o scraper")
		return
	}

	// Records persist through the same idempotent path the crawl loop uses;
	// a row that fails to save is skipped, not fatal for the batch.
	saved := 0
	for _, rec := range result.Records {
		created, err := h.pubs.Ingest(r.Context(), rec.CreateParams(time.Now()))
		if err != nil {
			slog.Error("failed to save publication from custom search",
				"numeroProcesso", rec.NumeroProcesso, "error", err)
			continue
		}

		if created {
			saved++
		}
	}

	api.OKMessage(w, "Busca personalizada concluída com sucesso", customSearchResponse{
		TermosBuscados:         req.Termos,
		Periodo:                fmt.Sprintf("%s até %s", req.DataInicio, req.DataFim),
		PublicacoesEncontradas: len(result.Records),
		PublicacoesSalvas:      saved,
		TempoExecucao:          result.Elapsed,
	})
}

func (h *Handler) searchProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.scraper.SearchProgress(r.Context())
	if err != nil {
		api.Fail(w, http.StatusServiceUnavailable, "Erro ao conectar com o scraper")
		return
	}

	api.OK(w, progress)
}

type statsResponse struct {
	TotalPublicacoes int        `json:"totalPublicacoes"`
	PublicacoesHoje  int        `json:"publicacoesHoje"`
	UltimaExecucao   *time.Time `json:"ultimaExecucao"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.pubs.Stats(r.Context())
	if err != nil {
		api.Internal(w, err)
		return
	}

	api.OK(w, statsResponse{
		TotalPublicacoes: stats.Total,
		PublicacoesHoje:  stats.CreatedToday,
		UltimaExecucao:   stats.LastCreated,
	})
}
