package publication

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/juscash/djetracker/internal/http/api"
	"github.com/juscash/djetracker/internal/publication"
)

var validate = validator.New()

type Handler struct {
	svc *publication.Service
}

func NewHandler(svc *publication.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the protected read/update endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
}

// CreateRoute registers the unauthenticated creation endpoint used by the
// scraper collaborator.
func (h *Handler) CreateRoute(r chi.Router) {
	r.Post("/", h.create)
}

type createRequest struct {
	NumeroProcesso         string           `json:"numeroProcesso" validate:"required"`
	DataDisponibilizacao   time.Time        `json:"dataDisponibilizacao" validate:"required"`
	Autores                string           `json:"autores" validate:"required"`
	Advogados              string           `json:"advogados"`
	Conteudo               string           `json:"conteudo" validate:"required"`
	ValorPrincipalBruto    *decimal.Decimal `json:"valorPrincipalBruto"`
	ValorPrincipalLiquido  *decimal.Decimal `json:"valorPrincipalLiquido"`
	ValorJurosMoratorios   *decimal.Decimal `json:"valorJurosMoratorios"`
	HonorariosAdvocaticios *decimal.Decimal `json:"honorariosAdvocaticios"`
	Reu                    string           `json:"reu"`
	Fonte                  string           `json:"fonte"`
	TermosEncontrados      string           `json:"termosEncontrados"`
}

func createValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Dados inválidos"
	}

	switch verrs[0].Field() {
	case "NumeroProcesso":
		return "Número do processo é obrigatório"
	case "DataDisponibilizacao":
		return "Data de disponibilização é obrigatória"
	case "Autores":
		return "Autores são obrigatórios"
	case "Conteudo":
		return "Conteúdo é obrigatório"
	}

	return "Dados inválidos"
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	if err := validate.Struct(req); err != nil {
		api.Fail(w, http.StatusBadRequest, createValidationMessage(err))
		return
	}

	pub, err := h.svc.Create(r.Context(), publication.CreateParams{
		NumeroProcesso:         req.NumeroProcesso,
		DataDisponibilizacao:   req.DataDisponibilizacao,
		Autores:                req.Autores,
		Reu:                    req.Reu,
		Advogados:              req.Advogados,
		Conteudo:               req.Conteudo,
		ValorPrincipalBruto:    req.ValorPrincipalBruto,
		ValorPrincipalLiquido:  req.ValorPrincipalLiquido,
		ValorJurosMoratorios:   req.ValorJurosMoratorios,
		HonorariosAdvocaticios: req.HonorariosAdvocaticios,
		Fonte:                  req.Fonte,
		TermosEncontrados:      req.TermosEncontrados,
	})
	if err != nil {
		switch {
		case errors.Is(err, publication.ErrDuplicateProcesso):
			api.Fail(w, http.StatusConflict, err.Error())
		case errors.Is(err, publication.ErrNegativeValor):
			api.Fail(w, http.StatusBadRequest, err.Error())
		default:
			api.Internal(w, err)
		}

		return
	}

	api.Created(w, toResponse(pub))
}

// queryDateLayout is the format of dataInicial/dataFinal query params.
const queryDateLayout = "2006-01-02"

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := publication.ListFilter{
		NumeroProcesso: q.Get("numeroProcesso"),
		Autor:          q.Get("autor"),
		Reu:            q.Get("reu"),
		Advogado:       q.Get("advogado"),
	}

	if s := q.Get("dataInicial"); s != "" {
		t, err := time.Parse(queryDateLayout, s)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "dataInicial inválida, use o formato YYYY-MM-DD")
			return
		}

		filter.DataInicial = &t
	}

	if s := q.Get("dataFinal"); s != "" {
		t, err := time.Parse(queryDateLayout, s)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "dataFinal inválida, use o formato YYYY-MM-DD")
			return
		}

		filter.DataFinal = &t
	}

	if s := q.Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.Page = n
		}
	}

	if s := q.Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.Limit = n
		}
	}

	res, err := h.svc.List(r.Context(), filter)
	if err != nil {
		api.Internal(w, err)
		return
	}

	api.Page(w, toResponseList(res.Items), api.Pagination{
		Page:       res.Page,
		Limit:      res.Limit,
		Total:      res.Total,
		TotalPages: res.TotalPages,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "ID inválido")
		return
	}

	pub, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, publication.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Publicação não encontrada")
			return
		}

		api.Internal(w, err)

		return
	}

	api.OK(w, toResponse(pub))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	// The enum is closed: unknown values never reach the transition check.
	status, err := publication.ParseStatus(req.Status)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	pub, err := h.svc.UpdateStatus(r.Context(), id, status)
	if err != nil {
		var tErr *publication.InvalidTransitionError

		switch {
		case errors.Is(err, publication.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "Publicação não encontrada")
		case errors.As(err, &tErr):
			api.Fail(w, http.StatusBadRequest, tErr.Error())
		default:
			api.Internal(w, err)
		}

		return
	}

	api.OK(w, toResponse(pub))
}
