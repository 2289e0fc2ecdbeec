package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/juscash/djetracker/internal/publication"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func New(db *sql.DB) *Store {
	return &Store{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const publicationColumns = `
	id, numero_processo, data_disponibilizacao, autores, reu, advogados, conteudo,
	valor_principal_bruto, valor_principal_liquido, valor_juros_moratorios, honorarios_advocaticios,
	status, fonte, termos_encontrados, data_extracao, created_at, updated_at
`

var listColumns = []string{
	"id", "numero_processo", "data_disponibilizacao", "autores", "reu", "advogados", "conteudo",
	"valor_principal_bruto", "valor_principal_liquido", "valor_juros_moratorios", "honorarios_advocaticios",
	"status", "fonte", "termos_encontrados", "data_extracao", "created_at", "updated_at",
}

// scanPublication reads a publication row in publicationColumns order.
func scanPublication(s scanner) (*publication.Publication, error) {
	var (
		pub       publication.Publication
		statusStr string

		bruto, liquido, juros, honorarios decimal.NullDecimal
	)

	if err := s.Scan(
		&pub.ID, &pub.NumeroProcesso, &pub.DataDisponibilizacao,
		&pub.Autores, &pub.Reu, &pub.Advogados, &pub.Conteudo,
		&bruto, &liquido, &juros, &honorarios,
		&statusStr, &pub.Fonte, &pub.TermosEncontrados,
		&pub.DataExtracao, &pub.CreatedAt, &pub.UpdatedAt,
	); err != nil {
		return nil, err
	}

	pub.Status = publication.Status(statusStr)
	pub.ValorPrincipalBruto = fromNull(bruto)
	pub.ValorPrincipalLiquido = fromNull(liquido)
	pub.ValorJurosMoratorios = fromNull(juros)
	pub.HonorariosAdvocaticios = fromNull(honorarios)

	return &pub, nil
}

func fromNull(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	return &d.Decimal
}

func toNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

const insertQuery = `
	INSERT INTO publicacoes (
		numero_processo, data_disponibilizacao, autores, reu, advogados, conteudo,
		valor_principal_bruto, valor_principal_liquido, valor_juros_moratorios, honorarios_advocaticios,
		status, fonte, termos_encontrados, data_extracao, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW(), NOW())
`

func (s *Store) Create(ctx context.Context, pub *publication.Publication) error {
	query := insertQuery + ` RETURNING id, data_extracao, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		pub.NumeroProcesso, pub.DataDisponibilizacao,
		pub.Autores, pub.Reu, pub.Advogados, pub.Conteudo,
		toNull(pub.ValorPrincipalBruto), toNull(pub.ValorPrincipalLiquido),
		toNull(pub.ValorJurosMoratorios), toNull(pub.HonorariosAdvocaticios),
		pub.Status, pub.Fonte, pub.TermosEncontrados,
	).Scan(&pub.ID, &pub.DataExtracao, &pub.CreatedAt, &pub.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return publication.ErrDuplicateProcesso
		}

		return fmt.Errorf("creating publication: %w", err)
	}

	return nil
}

// CreateIfAbsent inserts the publication unless its numero_processo is
// already present. The database unique constraint is the source of truth;
// ON CONFLICT DO NOTHING makes concurrent ingestion safe.
func (s *Store) CreateIfAbsent(ctx context.Context, pub *publication.Publication) (bool, error) {
	query := insertQuery + `
		ON CONFLICT (numero_processo) DO NOTHING
		RETURNING id, data_extracao, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		pub.NumeroProcesso, pub.DataDisponibilizacao,
		pub.Autores, pub.Reu, pub.Advogados, pub.Conteudo,
		toNull(pub.ValorPrincipalBruto), toNull(pub.ValorPrincipalLiquido),
		toNull(pub.ValorJurosMoratorios), toNull(pub.HonorariosAdvocaticios),
		pub.Status, pub.Fonte, pub.TermosEncontrados,
	).Scan(&pub.ID, &pub.DataExtracao, &pub.CreatedAt, &pub.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("ingesting publication: %w", err)
	}

	return true, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*publication.Publication, error) {
	query := `SELECT ` + publicationColumns + ` FROM publicacoes WHERE id = $1`

	pub, err := scanPublication(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, publication.ErrNotFound
		}

		return nil, fmt.Errorf("getting publication: %w", err)
	}

	return pub, nil
}

// listConditions translates the filter into squirrel predicates shared by
// the page query and the count query.
func listConditions(filter publication.ListFilter) []sq.Sqlizer {
	var conds []sq.Sqlizer

	if filter.NumeroProcesso != "" {
		conds = append(conds, sq.ILike{"numero_processo": "%" + filter.NumeroProcesso + "%"})
	}

	if filter.Autor != "" {
		conds = append(conds, sq.ILike{"autores": "%" + filter.Autor + "%"})
	}

	if filter.Reu != "" {
		conds = append(conds, sq.ILike{"reu": "%" + filter.Reu + "%"})
	}

	if filter.Advogado != "" {
		conds = append(conds, sq.ILike{"advogados": "%" + filter.Advogado + "%"})
	}

	if filter.DataInicial != nil {
		conds = append(conds, sq.GtOrEq{"data_disponibilizacao": *filter.DataInicial})
	}

	if filter.DataFinal != nil {
		conds = append(conds, sq.LtOrEq{"data_disponibilizacao": *filter.DataFinal})
	}

	return conds
}

func (s *Store) List(ctx context.Context, filter publication.ListFilter) ([]*publication.Publication, int, error) {
	conds := listConditions(filter)

	countQuery := s.sb.Select("COUNT(*)").From("publicacoes")
	for _, c := range conds {
		countQuery = countQuery.Where(c)
	}

	query, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building count query: %w", err)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting publications: %w", err)
	}

	pageQuery := s.sb.Select(listColumns...).
		From("publicacoes").
		OrderBy("data_disponibilizacao DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit))
	for _, c := range conds {
		pageQuery = pageQuery.Where(c)
	}

	query, args, err = pageQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	var pubs []*publication.Publication

	for rows.Next() {
		pub, err := scanPublication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning publication: %w", err)
		}

		pubs = append(pubs, pub)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating publication rows: %w", err)
	}

	return pubs, total, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status publication.Status) (*publication.Publication, error) {
	query := `
		UPDATE publicacoes
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + publicationColumns

	pub, err := scanPublication(s.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, publication.ErrNotFound
		}

		return nil, fmt.Errorf("updating status: %w", err)
	}

	return pub, nil
}

func (s *Store) Stats(ctx context.Context) (*publication.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('day', NOW())),
			MAX(created_at)
		FROM publicacoes
	`

	var (
		stats publication.Stats
		last  sql.NullTime
	)

	if err := s.db.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.CreatedToday, &last); err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}

	if last.Valid {
		stats.LastCreated = &last.Time
	}

	return &stats, nil
}
