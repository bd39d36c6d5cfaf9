package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/postgres"
)

func newInvitationUseCase(db *gorm.DB, n *fakeNotifier) *usecase.InvitationUseCase {
	return usecase.NewInvitationUseCase(
		postgres.NewUserRepository(db),
		postgres.NewInvitationRepository(db),
		postgres.NewTxRunner(db),
		n, nil,
	)
}

func TestInvitation_InvitarYAceptar(t *testing.T) {
	db := openTestDB(t)
	n := &fakeNotifier{}
	uc := newInvitationUseCase(db, n)
	ctx := context.Background()

	a := createUser(t, db, "a@x.com", "Acme")
	b := createUser(t, db, "b@x.com", "")

	resp, err := uc.Invite(ctx, a.ID, dto.InviteRequest{Email: "B@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", resp.Invitation.InvitedEmail)
	assert.Equal(t, "Acme", resp.Invitation.CompanyName)
	assert.Equal(t, string(entity.InvitationPending), resp.Invitation.Status)

	// Misma pareja pendiente: rechazada.
	_, err = uc.Invite(ctx, a.ID, dto.InviteRequest{Email: "b@x.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	sent := n.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "invitation", sent[0].kind)
	assert.Len(t, sent[0].token, 64)

	accepted, err := uc.Accept(ctx, b.ID, dto.AcceptInvitationRequest{Token: sent[0].token})
	require.NoError(t, err)
	assert.Equal(t, "Acme", accepted.User.Company.Name)

	// Una invitación aceptada no se reutiliza.
	_, err = uc.Accept(ctx, b.ID, dto.AcceptInvitationRequest{Token: sent[0].token})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestInvitation_ReglasDelInvitador(t *testing.T) {
	db := openTestDB(t)
	uc := newInvitationUseCase(db, &fakeNotifier{})
	ctx := context.Background()

	sinEmpresa := createUser(t, db, "solo@x.com", "")
	a := createUser(t, db, "a@x.com", "Acme")
	createUser(t, db, "c@x.com", "Otra SL")

	_, err := uc.Invite(ctx, sinEmpresa.ID, dto.InviteRequest{Email: "b@x.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = uc.Invite(ctx, a.ID, dto.InviteRequest{Email: "A@x.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = uc.Invite(ctx, a.ID, dto.InviteRequest{Email: "c@x.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestInvitation_AceptarConOtroEmail(t *testing.T) {
	db := openTestDB(t)
	n := &fakeNotifier{}
	uc := newInvitationUseCase(db, n)
	ctx := context.Background()

	a := createUser(t, db, "a@x.com", "Acme")
	intruso := createUser(t, db, "z@x.com", "")

	_, err := uc.Invite(ctx, a.ID, dto.InviteRequest{Email: "b@x.com"})
	require.NoError(t, err)

	_, err = uc.Accept(ctx, intruso.ID, dto.AcceptInvitationRequest{Token: n.all()[0].token})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestInvitation_Expirada_QuedaMarcada(t *testing.T) {
	db := openTestDB(t)
	n := &fakeNotifier{}
	uc := newInvitationUseCase(db, n)
	invitations := postgres.NewInvitationRepository(db)
	ctx := context.Background()

	a := createUser(t, db, "a@x.com", "Acme")
	b := createUser(t, db, "b@x.com", "")
	_, err := uc.Invite(ctx, a.ID, dto.InviteRequest{Email: "b@x.com"})
	require.NoError(t, err)
	token := n.all()[0].token

	inv, err := invitations.GetByToken(ctx, token)
	require.NoError(t, err)
	inv.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, invitations.Update(ctx, inv))

	_, err = uc.Accept(ctx, b.ID, dto.AcceptInvitationRequest{Token: token})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	inv, err = invitations.GetByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, entity.InvitationExpired, inv.Status)
}

func TestInvitation_MismaEmpresa_Idempotente(t *testing.T) {
	db := openTestDB(t)
	n := &fakeNotifier{}
	uc := newInvitationUseCase(db, n)
	ctx := context.Background()

	a := createUser(t, db, "a@x.com", "Acme")
	b := createUser(t, db, "b@x.com", "ACME")
	_, err := uc.Invite(ctx, a.ID, dto.InviteRequest{Email: "b@x.com"})
	require.NoError(t, err)

	resp, err := uc.Accept(ctx, b.ID, dto.AcceptInvitationRequest{Token: n.all()[0].token})
	require.NoError(t, err)
	assert.Equal(t, "ACME", resp.User.Company.Name)
}
