package publication

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=publication
type Repository interface {
	Create(ctx context.Context, pub *Publication) error
	CreateIfAbsent(ctx context.Context, pub *Publication) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (*Publication, error)
	List(ctx context.Context, filter ListFilter) ([]*Publication, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Publication, error)
	Stats(ctx context.Context) (*Stats, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	NumeroProcesso         string
	DataDisponibilizacao   time.Time
	Autores                string
	Reu                    string
	Advogados              string
	Conteudo               string
	ValorPrincipalBruto    *decimal.Decimal
	ValorPrincipalLiquido  *decimal.Decimal
	ValorJurosMoratorios   *decimal.Decimal
	HonorariosAdvocaticios *decimal.Decimal
	Fonte                  string
	TermosEncontrados      string
}

// ListFilter holds the optional conjunctive filters of the listing endpoint.
// Text filters are case-insensitive substring matches.
type ListFilter struct {
	NumeroProcesso string
	Autor          string
	Reu            string
	Advogado       string
	DataInicial    *time.Time
	DataFinal      *time.Time
	Page           int
	Limit          int
}

const (
	defaultLimit = 30
	maxLimit     = 100
)

// normalize clamps page and limit into their valid ranges and widens the
// final date to the end of its day, matching the inclusive range contract.
func (f ListFilter) normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.Limit < 1 {
		f.Limit = defaultLimit
	}

	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if f.DataFinal != nil {
		end := time.Date(
			f.DataFinal.Year(), f.DataFinal.Month(), f.DataFinal.Day(),
			23, 59, 59, 999_000_000, f.DataFinal.Location(),
		)
		f.DataFinal = &end
	}

	return f
}

type ListResult struct {
	Items      []*Publication
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// Stats summarizes the record store for the scraper status endpoint.
type Stats struct {
	Total        int
	CreatedToday int
	LastCreated  *time.Time
}

func (p CreateParams) toPublication() *Publication {
	pub := &Publication{
		NumeroProcesso:         p.NumeroProcesso,
		DataDisponibilizacao:   p.DataDisponibilizacao,
		Autores:                p.Autores,
		Reu:                    p.Reu,
		Advogados:              p.Advogados,
		Conteudo:               p.Conteudo,
		ValorPrincipalBruto:    p.ValorPrincipalBruto,
		ValorPrincipalLiquido:  p.ValorPrincipalLiquido,
		ValorJurosMoratorios:   p.ValorJurosMoratorios,
		HonorariosAdvocaticios: p.HonorariosAdvocaticios,
		Status:                 StatusNova,
		Fonte:                  p.Fonte,
		TermosEncontrados:      p.TermosEncontrados,
	}

	if pub.Reu == "" {
		pub.Reu = DefaultReu
	}

	if pub.Fonte == "" {
		pub.Fonte = DefaultFonte
	}

	return pub
}

func (p CreateParams) validateValores() error {
	for _, v := range []*decimal.Decimal{
		p.ValorPrincipalBruto,
		p.ValorPrincipalLiquido,
		p.ValorJurosMoratorios,
		p.HonorariosAdvocaticios,
	} {
		if v != nil && v.IsNegative() {
			return ErrNegativeValor
		}
	}

	return nil
}

// Create inserts a new publication with initial status "nova". A duplicate
// numero_processo yields ErrDuplicateProcesso.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Publication, error) {
	if err := params.validateValores(); err != nil {
		return nil, err
	}

	pub := params.toPublication()
	if err := s.repo.Create(ctx, pub); err != nil {
		return nil, err
	}

	return pub, nil
}

// Ingest persists a scraped record idempotently, keyed by numero_processo.
// It reports whether a new row was created; an already existing record is
// not an error on this path.
func (s *Service) Ingest(ctx context.Context, params CreateParams) (bool, error) {
	if err := params.validateValores(); err != nil {
		return false, err
	}

	return s.repo.CreateIfAbsent(ctx, params.toPublication())
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Publication, error) {
	return s.repo.Get(ctx, id)
}

// List applies the filters conjunctively and returns one page ordered by
// data_disponibilizacao descending, id descending as tie-break.
func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter = filter.normalize()

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit

	return &ListResult{
		Items:      items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus moves a publication through the workflow graph. The decision
// is always made against freshly loaded state.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Publication, error) {
	pub, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(pub.Status, status) {
		return nil, &InvalidTransitionError{
			Current:   pub.Status,
			Requested: status,
			Allowed:   AllowedNext(pub.Status),
		}
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}
