// Package scraper talks to the external DJE scraper service over HTTP. The
// service runs the actual gazette crawling; this client only triggers it and
// collects its results.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/juscash/djetracker/internal/publication"
)

// wireDateLayout is the day format the scraper expects: DD/MM/YYYY.
const wireDateLayout = "02/01/2006"

// RawRecord is a candidate publication as returned by the scraper, prior to
// persistence. Missing numeric fields decode to nil, missing text fields to
// the empty string.
type RawRecord struct {
	NumeroProcesso         string           `json:"numeroProcesso"`
	DataDisponibilizacao   string           `json:"dataDisponibilizacao"`
	Autores                string           `json:"autores"`
	Reu                    string           `json:"reu"`
	Advogados              string           `json:"advogados"`
	Conteudo               string           `json:"conteudo"`
	ValorPrincipalBruto    *decimal.Decimal `json:"valorPrincipalBruto"`
	ValorPrincipalLiquido  *decimal.Decimal `json:"valorPrincipalLiquido"`
	ValorJurosMoratorios   *decimal.Decimal `json:"valorJurosMoratorios"`
	HonorariosAdvocaticios *decimal.Decimal `json:"honorariosAdvocaticios"`
	TermosEncontrados      string           `json:"termosEncontrados"`
}

// dateLayouts the scraper has been seen emitting for dataDisponibilizacao.
var dateLayouts = []string{time.RFC3339, "2006-01-02", wireDateLayout}

// CreateParams converts the raw record into ingestion params. The record's
// own date wins; fallback is the day that was being fetched.
func (r RawRecord) CreateParams(fallback time.Time) publication.CreateParams {
	date := fallback

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, r.DataDisponibilizacao); err == nil {
			date = parsed
			break
		}
	}

	return publication.CreateParams{
		NumeroProcesso:         r.NumeroProcesso,
		DataDisponibilizacao:   date,
		Autores:                r.Autores,
		Reu:                    r.Reu,
		Advogados:              r.Advogados,
		Conteudo:               r.Conteudo,
		ValorPrincipalBruto:    r.ValorPrincipalBruto,
		ValorPrincipalLiquido:  r.ValorPrincipalLiquido,
		ValorJurosMoratorios:   r.ValorJurosMoratorios,
		HonorariosAdvocaticios: r.HonorariosAdvocaticios,
		TermosEncontrados:      r.TermosEncontrados,
	}
}

// DayResult is the outcome of fetching a single gazette day.
type DayResult struct {
	Skipped    bool
	SkipReason string
	Records    []RawRecord
}

// RunStats is returned by the direct-run trigger.
type RunStats struct {
	TotalPublicacoes int `json:"total_publicacoes"`
	TotalInseridas   int `json:"total_inseridas"`
	DatesProcessed   int `json:"dates_processed"`
	Errors           int `json:"errors"`
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchByDate asks the scraper for every publication disclosed on the given
// day.
func (c *Client) FetchByDate(ctx context.Context, date time.Time) (*DayResult, error) {
	reqBody := struct {
		Data string `json:"data"`
	}{Data: date.Format(wireDateLayout)}

	var respBody struct {
		Success     bool        `json:"success"`
		Error       string      `json:"error"`
		MotivoPulo  string      `json:"motivo_pulo"`
		Publicacoes []RawRecord `json:"publicacoes"`
	}

	if err := c.post(ctx, "/buscar-data-especifica", reqBody, &respBody); err != nil {
		return nil, err
	}

	if !respBody.Success {
		return nil, fmt.Errorf("scraper reported failure: %s", respBody.Error)
	}

	if respBody.MotivoPulo != "" {
		return &DayResult{Skipped: true, SkipReason: respBody.MotivoPulo}, nil
	}

	return &DayResult{Records: respBody.Publicacoes}, nil
}

// SearchResult is the outcome of a custom-term search.
type SearchResult struct {
	Records []RawRecord
	// Elapsed is the scraper's own human-readable execution time report.
	Elapsed string
}

// CustomSearch runs a term search over a date range. The dates pass through
// to the scraper untouched.
func (c *Client) CustomSearch(ctx context.Context, termos, dataInicio, dataFim string) (*SearchResult, error) {
	reqBody := struct {
		Termos     string `json:"termos"`
		DataInicio string `json:"data_inicio"`
		DataFim    string `json:"data_fim"`
	}{Termos: termos, DataInicio: dataInicio, DataFim: dataFim}

	var respBody struct {
		Success       bool        `json:"success"`
		Error         string      `json:"error"`
		Publicacoes   []RawRecord `json:"publicacoes"`
		TempoExecucao string      `json:"tempo_execucao"`
	}

	if err := c.post(ctx, "/busca-personalizada", reqBody, &respBody); err != nil {
		return nil, err
	}

	if !respBody.Success {
		return nil, fmt.Errorf("scraper reported failure: %s", respBody.Error)
	}

	return &SearchResult{Records: respBody.Publicacoes, Elapsed: respBody.TempoExecucao}, nil
}

// SearchProgress relays the scraper's progress report for an in-flight
// custom search verbatim.
func (c *Client) SearchProgress(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/progresso-busca", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling scraper: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper returned status %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding scraper response: %w", err)
	}

	return raw, nil
}

// Run triggers a direct scraper run over the last daysBack days.
func (c *Client) Run(ctx context.Context, daysBack int) (*RunStats, error) {
	reqBody := struct {
		DaysBack int `json:"daysBack"`
	}{DaysBack: daysBack}

	var respBody struct {
		Success bool     `json:"success"`
		Error   string   `json:"error"`
		Stats   RunStats `json:"stats"`
	}

	if err := c.post(ctx, "/run-real", reqBody, &respBody); err != nil {
		return nil, err
	}

	if !respBody.Success {
		return nil, fmt.Errorf("scraper reported failure: %s", respBody.Error)
	}

	return &respBody.Stats, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody, respBody any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling scraper: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scraper returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decoding scraper response: %w", err)
	}

	return nil
}
