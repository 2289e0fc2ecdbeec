// Package apiclient is the REST client used by the terminal UI. Every call
// takes a context so in-flight requests can be aborted when the user leaves
// a view.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/juscash/djetracker/internal/publication"
)

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken stores the bearer token used on protected endpoints.
func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError carries the error string from a {success:false} envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("requisição falhou com status %d", e.Status)
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Message    string          `json:"message"`
	Pagination *Pagination     `json:"pagination"`
}

// Publicacao mirrors the API representation of a gazette record.
type Publicacao struct {
	ID                     uuid.UUID          `json:"id"`
	NumeroProcesso         string             `json:"numeroProcesso"`
	DataDisponibilizacao   time.Time          `json:"dataDisponibilizacao"`
	Autores                string             `json:"autores"`
	Reu                    string             `json:"reu"`
	Advogados              string             `json:"advogados"`
	Conteudo               string             `json:"conteudo"`
	ValorPrincipalBruto    *float64           `json:"valorPrincipalBruto"`
	ValorPrincipalLiquido  *float64           `json:"valorPrincipalLiquido"`
	ValorJurosMoratorios   *float64           `json:"valorJurosMoratorios"`
	HonorariosAdvocaticios *float64           `json:"honorariosAdvocaticios"`
	Status                 publication.Status `json:"status"`
	Fonte                  string             `json:"fonte"`
	TermosEncontrados      string             `json:"termosEncontrados"`
	DataExtracao           time.Time          `json:"dataExtracao"`
	CreatedAt              time.Time          `json:"createdAt"`
	UpdatedAt              time.Time          `json:"updatedAt"`
}

// BuscaSession mirrors the busca-automatica session snapshot.
type BuscaSession struct {
	Ativa                  bool      `json:"ativa"`
	DataInicio             string    `json:"dataInicio"`
	DataAtual              string    `json:"dataAtual"`
	DataFim                string    `json:"dataFim"`
	TotalDias              int       `json:"totalDias"`
	DiasProcessados        int       `json:"diasProcessados"`
	PublicacoesEncontradas int       `json:"publicacoesEncontradas"`
	UltimaAtualizacao      time.Time `json:"ultimaAtualizacao"`
	Erro                   string    `json:"erro"`
}

type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (*envelope, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling API: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Error}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decoding data: %w", err)
		}
	}

	return &env, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}

	var out loginResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}

	c.token = out.Token

	return &out.User, nil
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var out loginResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}

	c.token = out.Token

	return &out.User, nil
}

// ListFilter narrows the publication listing. Zero values are omitted.
type ListFilter struct {
	NumeroProcesso string
	Autor          string
	Reu            string
	Advogado       string
	DataInicial    string
	DataFinal      string
	Page           int
	Limit          int
}

func (f ListFilter) query() string {
	q := url.Values{}

	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}

	set("numeroProcesso", f.NumeroProcesso)
	set("autor", f.Autor)
	set("reu", f.Reu)
	set("advogado", f.Advogado)
	set("dataInicial", f.DataInicial)
	set("dataFinal", f.DataFinal)

	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	if len(q) == 0 {
		return ""
	}

	return "?" + q.Encode()
}

func (c *Client) ListPublicacoes(ctx context.Context, filter ListFilter) ([]Publicacao, *Pagination, error) {
	var out []Publicacao

	env, err := c.do(ctx, http.MethodGet, "/api/publicacoes"+filter.query(), nil, &out)
	if err != nil {
		return nil, nil, err
	}

	return out, env.Pagination, nil
}

func (c *Client) GetPublicacao(ctx context.Context, id uuid.UUID) (*Publicacao, error) {
	var out Publicacao
	if _, err := c.do(ctx, http.MethodGet, "/api/publicacoes/"+id.String(), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id uuid.UUID, status publication.Status) (*Publicacao, error) {
	body := map[string]string{"status": string(status)}

	var out Publicacao
	if _, err := c.do(ctx, http.MethodPatch, "/api/publicacoes/"+id.String()+"/status", body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) StartBusca(ctx context.Context) (*BuscaSession, error) {
	var out BuscaSession
	if _, err := c.do(ctx, http.MethodPost, "/api/publicacoes/busca-automatica/iniciar", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) BuscaStatus(ctx context.Context) (*BuscaSession, error) {
	var out BuscaSession
	if _, err := c.do(ctx, http.MethodGet, "/api/publicacoes/busca-automatica/status", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) StopBusca(ctx context.Context) (*BuscaSession, error) {
	var out BuscaSession
	if _, err := c.do(ctx, http.MethodPost, "/api/publicacoes/busca-automatica/parar", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
