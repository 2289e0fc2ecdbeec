package publication_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juscash/djetracker/internal/publication"
)

func TestCanTransition_FullTable(t *testing.T) {
	all := []publication.Status{
		publication.StatusNova,
		publication.StatusLida,
		publication.StatusProcessada,
		publication.StatusConcluida,
	}

	allowed := map[publication.Status]map[publication.Status]bool{
		publication.StatusNova:       {publication.StatusLida: true},
		publication.StatusLida:       {publication.StatusProcessada: true},
		publication.StatusProcessada: {publication.StatusLida: true, publication.StatusConcluida: true},
		publication.StatusConcluida:  {},
	}

	for _, from := range all {
		for _, to := range all {
			got := publication.CanTransition(from, to)
			assert.Equalf(t, allowed[from][to], got, "transition %s -> %s", from, to)
		}
	}
}

func TestCanTransition_SelfAndUnknown(t *testing.T) {
	// Requesting the current status again is not a no-op success.
	assert.False(t, publication.CanTransition(publication.StatusLida, publication.StatusLida))

	// A corrupted current status denies everything and allows nothing next.
	assert.False(t, publication.CanTransition(publication.Status("pendente"), publication.StatusLida))
	assert.Empty(t, publication.AllowedNext(publication.Status("pendente")))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    publication.Status
		wantErr bool
	}{
		{in: "nova", want: publication.StatusNova},
		{in: "lida", want: publication.StatusLida},
		{in: "processada", want: publication.StatusProcessada},
		{in: "concluida", want: publication.StatusConcluida},
		{in: "concluída", wantErr: true},
		{in: "enviado para ADV", wantErr: true},
		{in: "", wantErr: true},
		{in: "LIDA", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := publication.ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
