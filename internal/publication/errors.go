package publication

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no publication exists for the given id.
	ErrNotFound = errors.New("publicação não encontrada")

	// ErrDuplicateProcesso is returned when a publication with the same
	// numero_processo already exists.
	ErrDuplicateProcesso = errors.New("publicação com este número de processo já existe")

	// ErrNegativeValor is returned when a monetary field is negative.
	ErrNegativeValor = errors.New("valores monetários não podem ser negativos")
)

// InvalidTransitionError is returned by UpdateStatus when the requested
// status is not reachable from the current one.
type InvalidTransitionError struct {
	Current   Status
	Requested Status
	Allowed   []Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf(
		"transição inválida: não é possível mudar de %q para %q. Transições válidas: %s",
		e.Current, e.Requested, formatAllowed(e.Allowed),
	)
}
