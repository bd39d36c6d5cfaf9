package dto

import "time"

// CreateProjectRequest entrada para crear un proyecto.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=150"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Status      string `json:"status" validate:"omitempty,oneof='Pendiente' 'En Progreso' 'Completado' 'Archivado' 'Cancelado'"`
	ClientID    string `json:"client_id" validate:"required"`
}

// UpdateProjectRequest parche de proyecto (campos opcionales).
type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=150"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Status      *string `json:"status" validate:"omitempty,oneof='Pendiente' 'En Progreso' 'Completado' 'Archivado' 'Cancelado'"`
	ClientID    *string `json:"client_id" validate:"omitempty"`
}

// ProjectResponse salida de un proyecto.
type ProjectResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	ClientID    string     `json:"client_id"`
	UserID      string     `json:"user_id"`
	IsArchived  bool       `json:"is_archived"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	Deleted     bool       `json:"deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
