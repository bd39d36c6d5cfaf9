package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

// CompanyUseCase edita la empresa embebida en el usuario autenticado.
type CompanyUseCase struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.UserRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, now: time.Now}
}

// Get devuelve la empresa del usuario.
func (uc *CompanyUseCase) Get(ctx context.Context, userID string) (*dto.CompanyResponse, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	resp := dto.NewCompanyResponse(user.Company)
	return &resp, nil
}

// Update aplica los campos presentes. El email se guarda en minúsculas.
func (uc *CompanyUseCase) Update(ctx context.Context, userID string, in dto.UpdateCompanyRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	c := &user.Company
	set(&c.Name, in.Name)
	set(&c.Address, in.Address)
	set(&c.Phone, in.Phone)
	set(&c.TaxID, in.TaxID)
	set(&c.Website, in.Website)
	if in.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}

	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// set asigna el valor recortado si el campo viene en el parche.
func set(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
