package publication

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the Kanban workflow stage of a publication.
type Status string

const (
	StatusNova       Status = "nova"
	StatusLida       Status = "lida"
	StatusProcessada Status = "processada"
	StatusConcluida  Status = "concluida"
)

// transitions is the closed set of allowed status moves. Concluida is
// terminal.
var transitions = map[Status][]Status{
	StatusNova:       {StatusLida},
	StatusLida:       {StatusProcessada},
	StatusProcessada: {StatusLida, StatusConcluida},
	StatusConcluida:  {},
}

// ParseStatus validates a wire-level status string against the closed enum.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNova, StatusLida, StatusProcessada, StatusConcluida:
		return Status(s), nil
	}

	return "", fmt.Errorf("status inválido: %q", s)
}

// AllowedNext returns the statuses reachable from the given one. An unknown
// status yields an empty set.
func AllowedNext(from Status) []Status {
	return transitions[from]
}

// CanTransition reports whether moving from one status to another is allowed
// by the workflow graph. Requesting the current status again is denied.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

func formatAllowed(statuses []Status) string {
	if len(statuses) == 0 {
		return "nenhuma"
	}

	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}

	return strings.Join(parts, ", ")
}

// Publication represents one DJE gazette disclosure tracked through the
// workflow. NumeroProcesso is the unique business key used for idempotent
// ingestion.
type Publication struct {
	ID                     uuid.UUID
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
	Status                 Status
	Fonte                  string
	TermosEncontrados      string
	DataExtracao           time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Default field values applied when the scraper omits them.
const (
	DefaultReu   = "Instituto Nacional do Seguro Social - INSS"
	DefaultFonte = "DJE - Caderno 3 - Judicial - 1ª Instância - Capital Parte 1"
)
