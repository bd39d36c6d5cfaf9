package deliverynote

import (
	"context"

	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// Snapshot datos necesarios para renderizar un albarán.
type Snapshot struct {
	Note    *entity.DeliveryNote
	Company entity.Company  // empresa embebida del propietario
	Client  *entity.Client  // puede ser nil si el cliente fue borrado físicamente
	Project *entity.Project // puede ser nil si el proyecto fue borrado físicamente

	Signature    []byte // imagen de la firma, nil si no hay
	SignatureExt string // extensión sin punto: png, jpg...
}

// PDFGenerator puerto de renderizado del albarán.
type PDFGenerator interface {
	RenderDeliveryNote(ctx context.Context, snap Snapshot) ([]byte, error)
}

// FileStorage puerto de almacenamiento de firmas y PDFs. Las claves usan "/".
type FileStorage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) ([]byte, error)
}

// SignatureUpload imagen de firma recibida por multipart.
type SignatureUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ListQuery filtros del listado.
type ListQuery struct {
	ProjectID      string
	ClientID       string
	IncludeDeleted bool
}
