package dto

import "github.com/jhoicas/albaranes-api/internal/domain/entity"

// NewUserResponse convierte la entidad sin exponer hash ni tokens.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Company:   NewCompanyResponse(u.Company),
		Validated: u.Validated,
		IsDeleted: u.IsDeleted,
		DeletedAt: u.DeletedAt,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewCompanyResponse convierte la empresa embebida.
func NewCompanyResponse(c entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:      c.ID,
		Name:    c.Name,
		Address: c.Address,
		TaxID:   c.TaxID,
		Phone:   c.Phone,
		Email:   c.Email,
		Website: c.Website,
	}
}

// NewClientResponse convierte un cliente.
func NewClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
		Address: AddressDTO{
			Street:     c.Address.Street,
			City:       c.Address.City,
			PostalCode: c.Address.PostalCode,
			Province:   c.Address.Province,
			Country:    c.Address.Country,
		},
		UserID:    c.UserID,
		CompanyID: c.CompanyID,
		IsDeleted: c.IsDeleted,
		DeletedAt: c.DeletedAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewProjectResponse convierte un proyecto.
func NewProjectResponse(p *entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		ClientID:    p.ClientID,
		UserID:      p.UserID,
		IsArchived:  p.IsArchived,
		ArchivedAt:  p.ArchivedAt,
		Deleted:     p.Deleted,
		DeletedAt:   p.DeletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewDeliveryNoteResponse convierte un albarán calculando los totales.
func NewDeliveryNoteResponse(n *entity.DeliveryNote) DeliveryNoteResponse {
	lines := make([]DeliveryNoteLineResponse, 0, len(n.Lines))
	for _, l := range n.Lines {
		lines = append(lines, DeliveryNoteLineResponse{
			Description: l.Description,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total(),
		})
	}
	return DeliveryNoteResponse{
		ID:            n.ID,
		Number:        n.Number,
		IssueDate:     n.IssueDate,
		ProjectID:     n.ProjectID,
		ClientID:      n.ClientID,
		UserID:        n.UserID,
		Lines:         lines,
		Total:         n.Total(),
		Observations:  n.Observations,
		Status:        string(n.Status),
		SignaturePath: n.SignaturePath,
		SignedAt:      n.SignedAt,
		PDFPath:       n.PDFPath,
		Deleted:       n.Deleted,
		DeletedAt:     n.DeletedAt,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

// NewInvitationResponse convierte una invitación sin el token.
func NewInvitationResponse(i *entity.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:           i.ID,
		InvitedEmail: i.InvitedEmail,
		CompanyName:  i.CompanyName,
		Status:       string(i.Status),
		ExpiresAt:    i.ExpiresAt,
	}
}
