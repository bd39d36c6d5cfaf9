package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/albaranes-api/internal/application/auth"
	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/mail"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

var (
	ErrInviterWithoutCompany = fmt.Errorf("%w: debes pertenecer a una empresa para invitar", domain.ErrInvalidState)
	ErrSelfInvitation        = fmt.Errorf("%w: no puedes invitarte a ti mismo", domain.ErrInvalidState)
	ErrInvitationPending     = fmt.Errorf("%w: ya existe una invitación pendiente para este email", domain.ErrDuplicate)
	ErrInviteeHasCompany     = fmt.Errorf("%w: el usuario ya pertenece a otra empresa", domain.ErrInvalidState)
	ErrInvitationInvalid     = fmt.Errorf("%w: invitación inválida o ya utilizada", domain.ErrInvalidToken)
	ErrInvitationExpired     = fmt.Errorf("%w: la invitación ha expirado", domain.ErrInvalidToken)
	ErrAlreadyInOtherCompany = fmt.Errorf("%w: ya perteneces a otra empresa", domain.ErrInvalidState)
)

// InvitationUseCase invitaciones para unirse a la empresa de otro usuario.
type InvitationUseCase struct {
	users       repository.UserRepository
	invitations repository.InvitationRepository
	tx          TxRunner
	notifier    mail.Notifier
	log         *logger.Logger
	now         func() time.Time
}

// NewInvitationUseCase construye el caso de uso.
func NewInvitationUseCase(
	users repository.UserRepository,
	invitations repository.InvitationRepository,
	tx TxRunner,
	notifier mail.Notifier,
	log *logger.Logger,
) *InvitationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &InvitationUseCase{
		users:       users,
		invitations: invitations,
		tx:          tx,
		notifier:    notifier,
		log:         log.Component("invitation"),
		now:         time.Now,
	}
}

// Invite crea una invitación pendiente para la empresa del invitador y encola el email.
func (uc *InvitationUseCase) Invite(ctx context.Context, inviterID string, in dto.InviteRequest) (*dto.InviteResponse, error) {
	inviter, err := uc.users.GetByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	if inviter == nil {
		return nil, ErrUserNotFound
	}
	if !inviter.Company.HasName() {
		return nil, ErrInviterWithoutCompany
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == inviter.Email {
		return nil, ErrSelfInvitation
	}
	companyName := strings.TrimSpace(inviter.Company.Name)

	pending, err := uc.invitations.GetPending(ctx, email, companyName)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrInvitationPending
	}
	invitee, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if invitee != nil && invitee.Company.HasName() && !invitee.Company.SameName(companyName) {
		return nil, ErrInviteeHasCompany
	}

	token, err := auth.RandomToken(auth.InvitationTokenBytes)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	inv := &entity.Invitation{
		ID:           uuid.New().String(),
		InvitedEmail: email,
		CompanyName:  companyName,
		InviterID:    inviter.ID,
		Token:        token,
		ExpiresAt:    now.Add(auth.InvitationTokenTTL),
		Status:       entity.InvitationPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.invitations.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrInvitationPending
		}
		return nil, err
	}
	uc.notifier.CompanyInvitation(ctx, email, inviter.Name, companyName, token)
	uc.log.Info().Str("inviter_id", inviter.ID).Str("company", companyName).Msg("invitación creada")

	return &dto.InviteResponse{
		Message:    "Invitación enviada a " + email,
		Invitation: dto.NewInvitationResponse(inv),
	}, nil
}

// Accept une al usuario a la empresa de la invitación. Todo ocurre en una transacción;
// una invitación expirada se marca como tal y se confirma antes de devolver el error.
func (uc *InvitationUseCase) Accept(ctx context.Context, userID string, in dto.AcceptInvitationRequest) (*dto.AcceptInvitationResponse, error) {
	var (
		resp    *dto.AcceptInvitationResponse
		expired bool
	)
	err := uc.tx.Run(ctx, func(users repository.UserRepository, invitations repository.InvitationRepository) error {
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		inv, err := invitations.GetByToken(ctx, strings.TrimSpace(in.Token))
		if err != nil {
			return err
		}
		if inv == nil || inv.Status != entity.InvitationPending || !strings.EqualFold(inv.InvitedEmail, user.Email) {
			return ErrInvitationInvalid
		}

		now := uc.now()
		if inv.IsExpired(now) {
			inv.Status = entity.InvitationExpired
			inv.UpdatedAt = now
			expired = true
			return invitations.Update(ctx, inv)
		}

		switch {
		case user.Company.SameName(inv.CompanyName):
			// Ya pertenece: solo se cierra la invitación.
		case user.Company.HasName():
			return ErrAlreadyInOtherCompany
		default:
			user.Company.Name = inv.CompanyName
			if user.Company.ID == "" {
				user.Company.ID = uuid.New().String()
			}
			user.UpdatedAt = now
			if err := users.Update(ctx, user); err != nil {
				return err
			}
		}

		inv.Status = entity.InvitationAccepted
		inv.UpdatedAt = now
		if err := invitations.Update(ctx, inv); err != nil {
			return err
		}
		resp = &dto.AcceptInvitationResponse{
			Message: "Te has unido a la empresa " + inv.CompanyName,
			User:    dto.NewUserResponse(user),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, ErrInvitationExpired
	}
	return resp, nil
}
