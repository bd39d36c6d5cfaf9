// Package deliverynote implementa el ciclo de vida de los albaranes: alta,
// consulta, firma, generación de PDF y borrado lógico o físico.
package deliverynote

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

// MaxSignatureBytes tamaño máximo de la imagen de firma (5 MiB).
const MaxSignatureBytes = 5 << 20

const (
	signatureDir = "firmas"
	pdfDir       = "ficheros-generados"
)

var (
	ErrNoteNotFound    = fmt.Errorf("%w: albarán", domain.ErrNotFound)
	ErrProjectNotFound = fmt.Errorf("%w: proyecto", domain.ErrNotFound)
)

// UseCase casos de uso de albaranes.
type UseCase struct {
	notes     repository.DeliveryNoteRepository
	projects  repository.ProjectRepository
	clients   repository.ClientRepository
	users     repository.UserRepository
	storage   FileStorage
	generator PDFGenerator
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso con sus puertos.
func NewUseCase(
	notes repository.DeliveryNoteRepository,
	projects repository.ProjectRepository,
	clients repository.ClientRepository,
	users repository.UserRepository,
	storage FileStorage,
	generator PDFGenerator,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		notes:     notes,
		projects:  projects,
		clients:   clients,
		users:     users,
		storage:   storage,
		generator: generator,
		log:       log.Component("deliverynote"),
		now:       time.Now,
	}
}

// Create da de alta un albarán en un proyecto del usuario. El cliente se copia del proyecto.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateDeliveryNoteRequest) (*dto.DeliveryNoteResponse, error) {
	project, err := uc.projects.GetByID(ctx, userID, in.ProjectID, repository.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: no existe o no pertenece al usuario", ErrProjectNotFound)
	}
	if len(in.Lines) == 0 {
		return nil, validation.New("lines", "debe contener al menos 1 elementos")
	}

	status := entity.NoteDraft
	if in.Status != "" {
		status = entity.DeliveryNoteStatus(in.Status)
		// Firmado solo se alcanza con Sign.
		if status != entity.NoteDraft && status != entity.NoteIssued && status != entity.NoteCancelled {
			return nil, validation.New("status", "debe ser uno de: Borrador Emitido Cancelado")
		}
	}

	now := uc.now()
	issueDate := now
	if in.IssueDate != nil && !in.IssueDate.IsZero() {
		issueDate = *in.IssueDate
	}

	note := &entity.DeliveryNote{
		ID:           uuid.New().String(),
		UserID:       userID,
		ProjectID:    project.ID,
		ClientID:     project.ClientID,
		Number:       strings.TrimSpace(in.Number),
		IssueDate:    issueDate,
		Lines:        toLines(in.Lines),
		Observations: strings.TrimSpace(in.Observations),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	resp := dto.NewDeliveryNoteResponse(note)
	return &resp, nil
}

// List devuelve los albaranes del usuario, más recientes primero.
func (uc *UseCase) List(ctx context.Context, userID string, q ListQuery) ([]dto.DeliveryNoteResponse, error) {
	list, err := uc.notes.List(ctx, userID, repository.DeliveryNoteFilter{
		ProjectID:      q.ProjectID,
		ClientID:       q.ClientID,
		IncludeDeleted: q.IncludeDeleted,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.DeliveryNoteResponse, 0, len(list))
	for _, n := range list {
		items = append(items, dto.NewDeliveryNoteResponse(n))
	}
	return items, nil
}

// Get devuelve un albarán no eliminado del usuario.
func (uc *UseCase) Get(ctx context.Context, userID, id string) (*dto.DeliveryNoteResponse, error) {
	note, err := uc.find(ctx, userID, id, false)
	if err != nil {
		return nil, err
	}
	resp := dto.NewDeliveryNoteResponse(note)
	return &resp, nil
}

// Sign guarda la imagen de firma y pasa el albarán a Firmado.
func (uc *UseCase) Sign(ctx context.Context, userID, id string, up SignatureUpload) (*dto.DeliveryNoteResponse, error) {
	if err := validateSignature(up); err != nil {
		return nil, err
	}
	// Incluye eliminados para responder InvalidState en lugar de NotFound.
	note, err := uc.find(ctx, userID, id, true)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	key := fmt.Sprintf("%s/firma-%s-%d%s", signatureDir, note.ID, now.UnixMilli(), signatureExt(up))
	if err := note.Sign(key, now); err != nil {
		return nil, err
	}
	if err := uc.storage.Save(ctx, key, up.Data, up.ContentType); err != nil {
		return nil, fmt.Errorf("guardar firma: %w", err)
	}
	note.UpdatedAt = now
	if err := uc.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	uc.log.Info().Str("note_id", note.ID).Str("path", key).Msg("albarán firmado")
	resp := dto.NewDeliveryNoteResponse(note)
	return &resp, nil
}

// DownloadPDF renderiza el albarán en cualquier estado. Devuelve bytes y nombre de archivo.
func (uc *UseCase) DownloadPDF(ctx context.Context, userID, id string) ([]byte, string, error) {
	note, err := uc.find(ctx, userID, id, false)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.render(ctx, userID, note)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("albaran_%s.pdf", fileSafe(note.DisplayNumber())), nil
}

// UploadSignedPDF genera el PDF de un albarán firmado, lo almacena y guarda la ruta.
func (uc *UseCase) UploadSignedPDF(ctx context.Context, userID, id string) (*dto.SignedPDFResponse, error) {
	note, err := uc.find(ctx, userID, id, false)
	if err != nil {
		return nil, err
	}
	if note.Status != entity.NoteSigned {
		return nil, entity.ErrNoteNotSigned
	}
	pdf, err := uc.render(ctx, userID, note)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	key := fmt.Sprintf("%s/albaran_firmado_%s_%d.pdf", pdfDir, fileSafe(note.DisplayNumber()), now.UnixMilli())
	if err := uc.storage.Save(ctx, key, pdf, "application/pdf"); err != nil {
		return nil, fmt.Errorf("guardar pdf: %w", err)
	}
	if err := note.AttachPDF(key); err != nil {
		return nil, err
	}
	note.UpdatedAt = now
	if err := uc.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return &dto.SignedPDFResponse{
		Message: "PDF generado y almacenado correctamente",
		PDFPath: key,
		Note:    dto.NewDeliveryNoteResponse(note),
	}, nil
}

// SoftDelete aplica el borrado lógico. Firmados y cancelados no se eliminan.
func (uc *UseCase) SoftDelete(ctx context.Context, userID, id string) error {
	note, err := uc.find(ctx, userID, id, true)
	if err != nil {
		return err
	}
	now := uc.now()
	if err := note.SoftDelete(now); err != nil {
		return err
	}
	note.UpdatedAt = now
	return uc.notes.Update(ctx, note)
}

// Recover revierte el borrado lógico.
func (uc *UseCase) Recover(ctx context.Context, userID, id string) (*dto.DeliveryNoteResponse, error) {
	note, err := uc.find(ctx, userID, id, true)
	if err != nil {
		return nil, err
	}
	if err := note.Recover(); err != nil {
		return nil, err
	}
	note.UpdatedAt = uc.now()
	if err := uc.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	resp := dto.NewDeliveryNoteResponse(note)
	return &resp, nil
}

// HardDelete borra el albarán físicamente, salvo que esté firmado.
func (uc *UseCase) HardDelete(ctx context.Context, userID, id string) error {
	note, err := uc.find(ctx, userID, id, true)
	if err != nil {
		return err
	}
	if err := note.CanHardDelete(); err != nil {
		return err
	}
	return uc.notes.Delete(ctx, userID, note.ID)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (uc *UseCase) find(ctx context.Context, userID, id string, includeDeleted bool) (*entity.DeliveryNote, error) {
	note, err := uc.notes.GetByID(ctx, userID, id, repository.DeliveryNoteFilter{IncludeDeleted: includeDeleted})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// render reúne empresa, cliente, proyecto y firma y llama al generador.
func (uc *UseCase) render(ctx context.Context, userID string, note *entity.DeliveryNote) ([]byte, error) {
	snap := Snapshot{Note: note}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener usuario: %w", err)
	}
	if user != nil {
		snap.Company = user.Company
	}
	snap.Client, err = uc.clients.GetByID(ctx, userID, note.ClientID, repository.ClientFilter{IncludeDeleted: true})
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	snap.Project, err = uc.projects.GetByID(ctx, userID, note.ProjectID,
		repository.ProjectFilter{IncludeArchived: true, IncludeDeleted: true})
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener proyecto: %w", err)
	}

	if note.SignaturePath != "" {
		data, err := uc.storage.Open(ctx, note.SignaturePath)
		if err != nil {
			// El PDF se genera igualmente con el hueco de la firma.
			uc.log.Warn().Err(err).Str("note_id", note.ID).Msg("no se pudo leer la firma")
		} else {
			snap.Signature = data
			snap.SignatureExt = strings.TrimPrefix(strings.ToLower(filepath.Ext(note.SignaturePath)), ".")
		}
	}

	pdf, err := uc.generator.RenderDeliveryNote(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdf, nil
}

func toLines(in []dto.DeliveryNoteLineRequest) []entity.DeliveryNoteLine {
	lines := make([]entity.DeliveryNoteLine, 0, len(in))
	for _, l := range in {
		line := entity.DeliveryNoteLine{
			Description: strings.TrimSpace(l.Description),
			Quantity:    decimal.NewFromInt(1),
			Unit:        strings.TrimSpace(l.Unit),
			UnitPrice:   decimal.Zero,
		}
		if l.Quantity != nil {
			line.Quantity = *l.Quantity
		}
		if l.UnitPrice != nil {
			line.UnitPrice = *l.UnitPrice
		}
		if line.Unit == "" {
			line.Unit = entity.DefaultLineUnit
		}
		lines = append(lines, line)
	}
	return lines
}

func validateSignature(up SignatureUpload) error {
	if len(up.Data) == 0 {
		return validation.New("firma", "no se ha subido ningún archivo de firma")
	}
	if !strings.HasPrefix(strings.ToLower(up.ContentType), "image/") {
		return validation.New("firma", "solo se permiten archivos de imagen")
	}
	if len(up.Data) > MaxSignatureBytes {
		return validation.New("firma", "la imagen no puede superar 5 MB")
	}
	return nil
}

// fileSafe deja solo [A-Za-z0-9._-] y sustituye el resto por "_"; ".." no sobrevive.
func fileSafe(s string) string {
	out := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, s)
	out = strings.ReplaceAll(out, "..", "__")
	if strings.Trim(out, "._") == "" {
		return "albaran"
	}
	return out
}

// signatureExt extensión del archivo original o, si no tiene, la del content type.
func signatureExt(up SignatureUpload) string {
	if ext := strings.ToLower(filepath.Ext(up.Filename)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(up.ContentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}
