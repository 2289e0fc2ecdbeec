package publication

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/juscash/djetracker/internal/publication"
)

type publicacaoResponse struct {
	ID                     uuid.UUID          `json:"id"`
	NumeroProcesso         string             `json:"numeroProcesso"`
	DataDisponibilizacao   time.Time          `json:"dataDisponibilizacao"`
	Autores                string             `json:"autores"`
	Reu                    string             `json:"reu"`
	Advogados              string             `json:"advogados,omitempty"`
	Conteudo               string             `json:"conteudo"`
	ValorPrincipalBruto    *float64           `json:"valorPrincipalBruto"`
	ValorPrincipalLiquido  *float64           `json:"valorPrincipalLiquido"`
	ValorJurosMoratorios   *float64           `json:"valorJurosMoratorios"`
	HonorariosAdvocaticios *float64           `json:"honorariosAdvocaticios"`
	Status                 publication.Status `json:"status"`
	Fonte                  string             `json:"fonte"`
	TermosEncontrados      string             `json:"termosEncontrados,omitempty"`
	DataExtracao           time.Time          `json:"dataExtracao"`
	CreatedAt              time.Time          `json:"createdAt"`
	UpdatedAt              time.Time          `json:"updatedAt"`
}

func valor(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}

	f := d.InexactFloat64()

	return &f
}

func toResponse(pub *publication.Publication) publicacaoResponse {
	return publicacaoResponse{
		ID:                     pub.ID,
		NumeroProcesso:         pub.NumeroProcesso,
		DataDisponibilizacao:   pub.DataDisponibilizacao,
		Autores:                pub.Autores,
		Reu:                    pub.Reu,
		Advogados:              pub.Advogados,
		Conteudo:               pub.Conteudo,
		ValorPrincipalBruto:    valor(pub.ValorPrincipalBruto),
		ValorPrincipalLiquido:  valor(pub.ValorPrincipalLiquido),
		ValorJurosMoratorios:   valor(pub.ValorJurosMoratorios),
		HonorariosAdvocaticios: valor(pub.HonorariosAdvocaticios),
		Status:                 pub.Status,
		Fonte:                  pub.Fonte,
		TermosEncontrados:      pub.TermosEncontrados,
		DataExtracao:           pub.DataExtracao,
		CreatedAt:              pub.CreatedAt,
		UpdatedAt:              pub.UpdatedAt,
	}
}

func toResponseList(pubs []*publication.Publication) []publicacaoResponse {
	resp := make([]publicacaoResponse, len(pubs))
	for i, pub := range pubs {
		resp[i] = toResponse(pub)
	}

	return resp
}
