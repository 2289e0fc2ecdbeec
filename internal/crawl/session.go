package crawl

import "time"

// sessionDateLayout is how session dates are displayed: DD/MM/YYYY.
const sessionDateLayout = "02/01/2006"

// Session describes an in-progress (or the last finished) day-by-day
// ingestion run. It is process-lifetime state, never persisted; readers
// always receive a value copy.
type Session struct {
	Ativa                  bool      `json:"ativa"`
	DataInicio             string    `json:"dataInicio"`
	DataAtual              string    `json:"dataAtual"`
	DataFim                string    `json:"dataFim"`
	TotalDias              int       `json:"totalDias"`
	DiasProcessados        int       `json:"diasProcessados"`
	PublicacoesEncontradas int       `json:"publicacoesEncontradas"`
	UltimaAtualizacao      time.Time `json:"ultimaAtualizacao"`
	Erro                   string    `json:"erro,omitempty"`
}
