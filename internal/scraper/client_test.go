package scraper_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juscash/djetracker/internal/scraper"
)

func TestClient_FetchByDate(t *testing.T) {
	var gotBody map[string]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/buscar-data-especifica", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"publicacoes": [
				{
					"numeroProcesso": "1234567-89.2025.8.26.0100",
					"dataDisponibilizacao": "2025-03-17",
					"autores": "João Silva",
					"conteudo": "Processo nº 1234567...",
					"valorPrincipalBruto": 10000.50
				}
			]
		}`))
	}))
	defer ts.Close()

	client := scraper.NewClient(ts.URL, 5*time.Second)

	day := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	res, err := client.FetchByDate(context.Background(), day)
	require.NoError(t, err)

	// Dates go over the wire as DD/MM/YYYY.
	assert.Equal(t, "17/03/2025", gotBody["data"])

	require.False(t, res.Skipped)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "1234567-89.2025.8.26.0100", rec.NumeroProcesso)
	require.NotNil(t, rec.ValorPrincipalBruto)
	assert.True(t, rec.ValorPrincipalBruto.Equal(decimal.RequireFromString("10000.50")))
	assert.Nil(t, rec.ValorPrincipalLiquido)
	assert.Empty(t, rec.Advogados)

	params := rec.CreateParams(day)
	assert.Equal(t, 2025, params.DataDisponibilizacao.Year())
	assert.Equal(t, time.March, params.DataDisponibilizacao.Month())
}

func TestClient_FetchByDate_Skipped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "motivo_pulo": "feriado"}`))
	}))
	defer ts.Close()

	client := scraper.NewClient(ts.URL, 5*time.Second)

	res, err := client.FetchByDate(context.Background(), time.Now())
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, "feriado", res.SkipReason)
	assert.Empty(t, res.Records)
}

func TestClient_FetchByDate_Failure(t *testing.T) {
	t.Run("ReportedFailure", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": false, "error": "selenium timeout"}`))
		}))
		defer ts.Close()

		_, err := scraper.NewClient(ts.URL, 5*time.Second).FetchByDate(context.Background(), time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "selenium timeout")
	})

	t.Run("HTTPError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer ts.Close()

		_, err := scraper.NewClient(ts.URL, 5*time.Second).FetchByDate(context.Background(), time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("Unreachable", func(t *testing.T) {
		client := scraper.NewClient("http://127.0.0.1:1", time.Second)

		_, err := client.FetchByDate(context.Background(), time.Now())
		assert.Error(t, err)
	})
}

func TestClient_Run(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/run-real", r.URL.Path)

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 7, body["daysBack"])

		w.Write([]byte(`{"success": true, "stats": {"total_publicacoes": 15, "total_inseridas": 12, "dates_processed": 7, "errors": 0}}`))
	}))
	defer ts.Close()

	stats, err := scraper.NewClient(ts.URL, 5*time.Second).Run(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 15, stats.TotalPublicacoes)
	assert.Equal(t, 12, stats.TotalInseridas)
	assert.Equal(t, 7, stats.DatesProcessed)
}

func TestClient_CustomSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/busca-personalizada", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		// Search dates use snake_case keys on the wire.
		assert.Equal(t, "RPV, pagamento", body["termos"])
		assert.Equal(t, "2025-03-17", body["data_inicio"])
		assert.Equal(t, "2025-03-21", body["data_fim"])

		w.Write([]byte(`{
			"success": true,
			"tempo_execucao": "42s",
			"publicacoes": [
				{"numeroProcesso": "111", "dataDisponibilizacao": "2025-03-17", "termosEncontrados": "RPV"}
			]
		}`))
	}))
	defer ts.Close()

	res, err := scraper.NewClient(ts.URL, 5*time.Second).
		CustomSearch(context.Background(), "RPV, pagamento", "2025-03-17", "2025-03-21")
	require.NoError(t, err)

	assert.Equal(t, "42s", res.Elapsed)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "111", res.Records[0].NumeroProcesso)
	assert.Equal(t, "RPV", res.Records[0].TermosEncontrados)
}

func TestClient_CustomSearch_Failure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "selenium indisponível"}`))
	}))
	defer ts.Close()

	_, err := scraper.NewClient(ts.URL, 5*time.Second).
		CustomSearch(context.Background(), "RPV", "2025-03-17", "2025-03-21")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selenium indisponível")
}

func TestClient_SearchProgress(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/progresso-busca", r.URL.Path)

		w.Write([]byte(`{"em_andamento": false, "progresso": 100}`))
	}))
	defer ts.Close()

	raw, err := scraper.NewClient(ts.URL, 5*time.Second).SearchProgress(context.Background())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, float64(100), got["progresso"])
}
