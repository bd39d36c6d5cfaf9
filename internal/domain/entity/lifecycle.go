package entity

import (
	"fmt"

	"github.com/jhoicas/albaranes-api/internal/domain"
)

// Transiciones de ciclo de vida rechazadas. Todas envuelven domain.ErrInvalidState.
var (
	ErrAlreadyDeleted   = fmt.Errorf("%w: el registro ya está eliminado", domain.ErrInvalidState)
	ErrNotDeleted       = fmt.Errorf("%w: el registro no está eliminado, no se puede recuperar", domain.ErrInvalidState)
	ErrAlreadyArchived  = fmt.Errorf("%w: el proyecto ya está archivado", domain.ErrInvalidState)
	ErrNotArchived      = fmt.Errorf("%w: el proyecto no está archivado, no se puede recuperar", domain.ErrInvalidState)
	ErrAlreadySigned    = fmt.Errorf("%w: este albarán ya ha sido firmado", domain.ErrInvalidState)
	ErrNoteNotSignable  = fmt.Errorf("%w: no se puede firmar un albarán cancelado o eliminado", domain.ErrInvalidState)
	ErrSignedNoteDelete = fmt.Errorf("%w: no se puede eliminar un albarán que ya ha sido firmado", domain.ErrInvalidState)
	ErrCancelledDelete  = fmt.Errorf("%w: no se puede eliminar un albarán cancelado", domain.ErrInvalidState)
	ErrNoteNotSigned    = fmt.Errorf("%w: el albarán debe estar firmado antes de poder subir el PDF", domain.ErrInvalidState)
)
