package entity

import "time"

// ProjectStatus estado de un proyecto.
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "Pendiente"
	ProjectInProgress ProjectStatus = "En Progreso"
	ProjectCompleted  ProjectStatus = "Completado"
	ProjectArchived   ProjectStatus = "Archivado"
	ProjectCancelled  ProjectStatus = "Cancelado"
)

// Valid indica si el estado pertenece al enum.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPending, ProjectInProgress, ProjectCompleted, ProjectArchived, ProjectCancelled:
		return true
	}
	return false
}

// Project agrupa albaranes de un cliente.
//
// Tiene dos ejes de baja independientes:
//   - archivado (IsArchived + ArchivedAt + estado Archivado), revertido por Recover.
//   - borrado lógico (Deleted + DeletedAt), revertido por Restore.
//
// Ninguno de los dos modifica al otro.
type Project struct {
	ID          string
	UserID      string
	ClientID    string
	Name        string
	Description string
	Status      ProjectStatus
	IsArchived  bool
	ArchivedAt  *time.Time
	Deleted     bool
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Archive marca el proyecto como archivado.
func (p *Project) Archive(now time.Time) error {
	if p.IsArchived || p.Status == ProjectArchived {
		return ErrAlreadyArchived
	}
	p.Status = ProjectArchived
	p.IsArchived = true
	p.ArchivedAt = &now
	return nil
}

// Recover desarchiva el proyecto y lo devuelve a Pendiente.
func (p *Project) Recover() error {
	if !p.IsArchived && p.Status != ProjectArchived {
		return ErrNotArchived
	}
	p.Status = ProjectPending
	p.IsArchived = false
	p.ArchivedAt = nil
	return nil
}

// SoftDelete aplica el borrado lógico.
func (p *Project) SoftDelete(now time.Time) error {
	if p.Deleted {
		return ErrAlreadyDeleted
	}
	p.Deleted = true
	p.DeletedAt = &now
	return nil
}

// Restore revierte SoftDelete.
func (p *Project) Restore() error {
	if !p.Deleted {
		return ErrNotDeleted
	}
	p.Deleted = false
	p.DeletedAt = nil
	return nil
}
