package view

import (
	"fmt"
	"time"

	"github.com/juscash/djetracker/internal/publication"
)

// FormatDate formats a time.Time into DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatValor renders an optional monetary amount, "-" when absent.
func FormatValor(v *float64) string {
	if v == nil {
		return "-"
	}

	return fmt.Sprintf("R$ %.2f", *v)
}

// StatusLabel maps a workflow status to its board column title.
func StatusLabel(s publication.Status) string {
	switch s {
	case publication.StatusNova:
		return "Nova Publicação"
	case publication.StatusLida:
		return "Publicação Lida"
	case publication.StatusProcessada:
		return "Enviar para Advogado"
	case publication.StatusConcluida:
		return "Concluído"
	}

	return string(s)
}
