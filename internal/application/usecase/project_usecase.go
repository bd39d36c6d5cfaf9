package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

// ErrProjectNotFound proyecto inexistente o de otro usuario.
var ErrProjectNotFound = fmt.Errorf("%w: proyecto", domain.ErrNotFound)

// ProjectQuery opciones de listado de proyectos.
type ProjectQuery struct {
	ClientID        string
	IncludeArchived bool
	IncludeDeleted  bool
}

// ProjectUseCase casos de uso de proyectos. Archivado y borrado lógico son ejes independientes.
type ProjectUseCase struct {
	projects repository.ProjectRepository
	clients  repository.ClientRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(projects repository.ProjectRepository, clients repository.ClientRepository, log *logger.Logger) *ProjectUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProjectUseCase{projects: projects, clients: clients, log: log.Component("project"), now: time.Now}
}

// Create da de alta un proyecto para un cliente del usuario.
func (uc *ProjectUseCase) Create(ctx context.Context, userID string, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if err := uc.ownedClient(ctx, userID, in.ClientID); err != nil {
		return nil, err
	}
	now := uc.now()
	project := &entity.Project{
		ID:          uuid.New().String(),
		UserID:      userID,
		ClientID:    in.ClientID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Status:      entity.ProjectPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Status != "" {
		applyStatus(project, entity.ProjectStatus(in.Status), now)
	}
	if err := uc.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

// List devuelve los proyectos del usuario según el filtro.
func (uc *ProjectUseCase) List(ctx context.Context, userID string, q ProjectQuery) ([]dto.ProjectResponse, error) {
	list, err := uc.projects.List(ctx, userID, repository.ProjectFilter{
		ClientID:        q.ClientID,
		IncludeArchived: q.IncludeArchived,
		IncludeDeleted:  q.IncludeDeleted,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.NewProjectResponse(p))
	}
	return items, nil
}

// Get devuelve un proyecto no eliminado; los archivados solo con includeArchived.
func (uc *ProjectUseCase) Get(ctx context.Context, userID, id string, includeArchived bool) (*dto.ProjectResponse, error) {
	project, err := uc.find(ctx, userID, id, repository.ProjectFilter{IncludeArchived: includeArchived})
	if err != nil {
		return nil, err
	}
	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

// Update aplica un parche parcial. Cambiar de cliente exige que el nuevo sea del usuario.
func (uc *ProjectUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := uc.find(ctx, userID, id, repository.ProjectFilter{IncludeArchived: true})
	if err != nil {
		return nil, err
	}
	if in.ClientID != nil && *in.ClientID != project.ClientID {
		if err := uc.ownedClient(ctx, userID, *in.ClientID); err != nil {
			return nil, err
		}
		project.ClientID = *in.ClientID
	}
	set(&project.Name, in.Name)
	set(&project.Description, in.Description)
	now := uc.now()
	if in.Status != nil {
		applyStatus(project, entity.ProjectStatus(*in.Status), now)
	}
	project.UpdatedAt = now
	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

// Archive archiva el proyecto.
func (uc *ProjectUseCase) Archive(ctx context.Context, userID, id string) (*dto.ProjectResponse, error) {
	return uc.transition(ctx, userID, id, func(p *entity.Project, now time.Time) error { return p.Archive(now) })
}

// Recover desarchiva el proyecto y lo devuelve a Pendiente.
func (uc *ProjectUseCase) Recover(ctx context.Context, userID, id string) (*dto.ProjectResponse, error) {
	return uc.transition(ctx, userID, id, func(p *entity.Project, _ time.Time) error { return p.Recover() })
}

// SoftDelete aplica el borrado lógico sin tocar el archivado.
func (uc *ProjectUseCase) SoftDelete(ctx context.Context, userID, id string) (*dto.ProjectResponse, error) {
	return uc.transition(ctx, userID, id, func(p *entity.Project, now time.Time) error { return p.SoftDelete(now) })
}

// Restore revierte el borrado lógico.
func (uc *ProjectUseCase) Restore(ctx context.Context, userID, id string) (*dto.ProjectResponse, error) {
	return uc.transition(ctx, userID, id, func(p *entity.Project, _ time.Time) error { return p.Restore() })
}

// HardDelete borra el proyecto físicamente sea cual sea su estado.
func (uc *ProjectUseCase) HardDelete(ctx context.Context, userID, id string) error {
	if _, err := uc.find(ctx, userID, id, repository.ProjectFilter{IncludeArchived: true, IncludeDeleted: true}); err != nil {
		return err
	}
	if err := uc.projects.Delete(ctx, userID, id); err != nil {
		return err
	}
	uc.log.Info().Str("project_id", id).Msg("proyecto eliminado (físico)")
	return nil
}

// transition carga el proyecto en cualquier estado, aplica fn y persiste.
func (uc *ProjectUseCase) transition(ctx context.Context, userID, id string, fn func(*entity.Project, time.Time) error) (*dto.ProjectResponse, error) {
	project, err := uc.find(ctx, userID, id, repository.ProjectFilter{IncludeArchived: true, IncludeDeleted: true})
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := fn(project, now); err != nil {
		return nil, err
	}
	project.UpdatedAt = now
	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

func (uc *ProjectUseCase) find(ctx context.Context, userID, id string, f repository.ProjectFilter) (*entity.Project, error) {
	project, err := uc.projects.GetByID(ctx, userID, id, f)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// applyStatus mantiene el flag de archivado coherente con la etiqueta de estado.
func applyStatus(p *entity.Project, status entity.ProjectStatus, now time.Time) {
	switch {
	case status == entity.ProjectArchived && !p.IsArchived:
		p.IsArchived = true
		p.ArchivedAt = &now
	case status != entity.ProjectArchived && p.IsArchived:
		p.IsArchived = false
		p.ArchivedAt = nil
	}
	p.Status = status
}

func (uc *ProjectUseCase) ownedClient(ctx context.Context, userID, clientID string) error {
	client, err := uc.clients.GetByID(ctx, userID, clientID, repository.ClientFilter{})
	if err != nil {
		return err
	}
	if client == nil {
		return fmt.Errorf("%w: no existe o no pertenece al usuario", ErrClientNotFound)
	}
	return nil
}
