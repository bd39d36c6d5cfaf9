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

// ErrClientNotFound cliente inexistente o de otro usuario.
var ErrClientNotFound = fmt.Errorf("%w: cliente", domain.ErrNotFound)

// ClientUseCase casos de uso de clientes, siempre acotados al propietario.
type ClientUseCase struct {
	clients repository.ClientRepository
	users   repository.UserRepository
	log     *logger.Logger
	now     func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clients repository.ClientRepository, users repository.UserRepository, log *logger.Logger) *ClientUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ClientUseCase{clients: clients, users: users, log: log.Component("client"), now: time.Now}
}

// Create da de alta un cliente. Guarda el id de la empresa del propietario.
func (uc *ClientUseCase) Create(ctx context.Context, userID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	owner, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}
	now := uc.now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		UserID:    owner.ID,
		CompanyID: owner.Company.ID,
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   toAddress(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	resp := dto.NewClientResponse(client)
	return &resp, nil
}

// List devuelve los clientes del usuario; los eliminados solo con includeDeleted.
func (uc *ClientUseCase) List(ctx context.Context, userID string, includeDeleted bool) ([]dto.ClientResponse, error) {
	list, err := uc.clients.List(ctx, userID, repository.ClientFilter{IncludeDeleted: includeDeleted})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.NewClientResponse(c))
	}
	return items, nil
}

// Get devuelve un cliente no eliminado.
func (uc *ClientUseCase) Get(ctx context.Context, userID, id string) (*dto.ClientResponse, error) {
	client, err := uc.find(ctx, userID, id, false)
	if err != nil {
		return nil, err
	}
	resp := dto.NewClientResponse(client)
	return &resp, nil
}

// Update aplica un parche parcial sobre un cliente no eliminado.
func (uc *ClientUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.find(ctx, userID, id, false)
	if err != nil {
		return nil, err
	}
	set(&client.Name, in.Name)
	set(&client.Phone, in.Phone)
	if in.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Address != nil {
		client.Address = toAddress(in.Address)
	}
	client.UpdatedAt = uc.now()
	if err := uc.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	resp := dto.NewClientResponse(client)
	return &resp, nil
}

// SoftDelete oculta el cliente de las consultas por defecto.
func (uc *ClientUseCase) SoftDelete(ctx context.Context, userID, id string) error {
	client, err := uc.find(ctx, userID, id, true)
	if err != nil {
		return err
	}
	now := uc.now()
	if err := client.SoftDelete(now); err != nil {
		return err
	}
	client.UpdatedAt = now
	return uc.clients.Update(ctx, client)
}

// Recover revierte el borrado lógico.
func (uc *ClientUseCase) Recover(ctx context.Context, userID, id string) (*dto.ClientResponse, error) {
	client, err := uc.find(ctx, userID, id, true)
	if err != nil {
		return nil, err
	}
	if err := client.Recover(); err != nil {
		return nil, err
	}
	client.UpdatedAt = uc.now()
	if err := uc.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	resp := dto.NewClientResponse(client)
	return &resp, nil
}

// HardDelete borra el cliente físicamente sea cual sea su estado.
func (uc *ClientUseCase) HardDelete(ctx context.Context, userID, id string) error {
	if _, err := uc.find(ctx, userID, id, true); err != nil {
		return err
	}
	if err := uc.clients.Delete(ctx, userID, id); err != nil {
		return err
	}
	uc.log.Info().Str("client_id", id).Msg("cliente eliminado (físico)")
	return nil
}

func (uc *ClientUseCase) find(ctx context.Context, userID, id string, includeDeleted bool) (*entity.Client, error) {
	client, err := uc.clients.GetByID(ctx, userID, id, repository.ClientFilter{IncludeDeleted: includeDeleted})
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func toAddress(in *dto.AddressDTO) entity.Address {
	addr := entity.Address{Country: entity.DefaultCountry}
	if in == nil {
		return addr
	}
	addr.Street = strings.TrimSpace(in.Street)
	addr.City = strings.TrimSpace(in.City)
	addr.PostalCode = strings.TrimSpace(in.PostalCode)
	addr.Province = strings.TrimSpace(in.Province)
	if c := strings.TrimSpace(in.Country); c != "" {
		addr.Country = c
	}
	return addr
}
