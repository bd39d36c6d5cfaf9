package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// Registros de persistencia. El dominio no conoce GORM; cada repositorio traduce
// entre entity.* y estos structs.

type companyColumns struct {
	ID      string `gorm:"size:36"`
	Name    string
	Address string
	TaxID   string
	Phone   string
	Email   string
	Website string
}

type userRecord struct {
	ID                       string         `gorm:"primaryKey;size:36"`
	Name                     string         `gorm:"not null"`
	Email                    string         `gorm:"not null;uniqueIndex"`
	PasswordHash             string         `gorm:"not null"`
	Company                  companyColumns `gorm:"embedded;embeddedPrefix:company_"`
	Validated                bool           `gorm:"not null;default:false"`
	EmailValidationToken     string         `gorm:"index"`
	EmailValidationExpiresAt *time.Time
	PasswordResetToken       string `gorm:"index"`
	PasswordResetExpiresAt   *time.Time
	IsDeleted                bool `gorm:"not null;default:false"`
	DeletedAt                *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func (userRecord) TableName() string { return "users" }

type addressColumns struct {
	Street     string
	City       string
	PostalCode string
	Province   string
	Country    string
}

type clientRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"not null;size:36;index"`
	CompanyID string `gorm:"size:36"`
	Name      string `gorm:"not null"`
	Email     string
	Phone     string
	Address   addressColumns `gorm:"embedded;embeddedPrefix:address_"`
	IsDeleted bool           `gorm:"not null;default:false;index"`
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (clientRecord) TableName() string { return "clients" }

type projectRecord struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"not null;size:36;index"`
	ClientID    string `gorm:"not null;size:36;index"`
	Name        string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;size:20"`
	IsArchived  bool   `gorm:"not null;default:false"`
	ArchivedAt  *time.Time
	Deleted     bool `gorm:"not null;default:false"`
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (projectRecord) TableName() string { return "projects" }

// lineRecord línea de albarán tal como se guarda en la columna JSON.
type lineRecord struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type deliveryNoteRecord struct {
	ID            string `gorm:"primaryKey;size:36"`
	UserID        string `gorm:"not null;size:36;index"`
	ProjectID     string `gorm:"not null;size:36;index"`
	ClientID      string `gorm:"not null;size:36;index"`
	Number        string
	IssueDate     time.Time                       `gorm:"not null;index"`
	Lines         datatypes.JSONSlice[lineRecord] `gorm:"not null"`
	Observations  string
	Status        string `gorm:"not null;size:20"`
	SignaturePath string
	SignedAt      *time.Time
	PDFPath       string
	Deleted       bool `gorm:"not null;default:false"`
	DeletedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (deliveryNoteRecord) TableName() string { return "delivery_notes" }

type invitationRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	InvitedEmail string `gorm:"not null;index:idx_invitation_lookup"`
	CompanyName  string `gorm:"not null;index:idx_invitation_lookup"`
	InviterID    string `gorm:"not null;size:36"`
	Token        string `gorm:"not null;uniqueIndex"`
	ExpiresAt    time.Time
	Status       string `gorm:"not null;size:20;index:idx_invitation_lookup"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (invitationRecord) TableName() string { return "invitations" }

// AutoMigrate crea o actualiza las tablas de la aplicación.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userRecord{},
		&clientRecord{},
		&projectRecord{},
		&deliveryNoteRecord{},
		&invitationRecord{},
	)
}

// ── mapeos ────────────────────────────────────────────────────────────────────

func newUserRecord(u *entity.User) *userRecord {
	return &userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Company: companyColumns{
			ID:      u.Company.ID,
			Name:    u.Company.Name,
			Address: u.Company.Address,
			TaxID:   u.Company.TaxID,
			Phone:   u.Company.Phone,
			Email:   u.Company.Email,
			Website: u.Company.Website,
		},
		Validated:                u.Validated,
		EmailValidationToken:     u.EmailValidationToken,
		EmailValidationExpiresAt: u.EmailValidationExpiresAt,
		PasswordResetToken:       u.PasswordResetToken,
		PasswordResetExpiresAt:   u.PasswordResetExpiresAt,
		IsDeleted:                u.IsDeleted,
		DeletedAt:                u.DeletedAt,
		CreatedAt:                u.CreatedAt,
		UpdatedAt:                u.UpdatedAt,
	}
}

func (r *userRecord) toEntity() *entity.User {
	return &entity.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Company: entity.Company{
			ID:      r.Company.ID,
			Name:    r.Company.Name,
			Address: r.Company.Address,
			TaxID:   r.Company.TaxID,
			Phone:   r.Company.Phone,
			Email:   r.Company.Email,
			Website: r.Company.Website,
		},
		Validated:                r.Validated,
		EmailValidationToken:     r.EmailValidationToken,
		EmailValidationExpiresAt: r.EmailValidationExpiresAt,
		PasswordResetToken:       r.PasswordResetToken,
		PasswordResetExpiresAt:   r.PasswordResetExpiresAt,
		IsDeleted:                r.IsDeleted,
		DeletedAt:                r.DeletedAt,
		CreatedAt:                r.CreatedAt,
		UpdatedAt:                r.UpdatedAt,
	}
}

func newClientRecord(c *entity.Client) *clientRecord {
	return &clientRecord{
		ID:        c.ID,
		UserID:    c.UserID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address: addressColumns{
			Street:     c.Address.Street,
			City:       c.Address.City,
			PostalCode: c.Address.PostalCode,
			Province:   c.Address.Province,
			Country:    c.Address.Country,
		},
		IsDeleted: c.IsDeleted,
		DeletedAt: c.DeletedAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r *clientRecord) toEntity() *entity.Client {
	return &entity.Client{
		ID:        r.ID,
		UserID:    r.UserID,
		CompanyID: r.CompanyID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Address: entity.Address{
			Street:     r.Address.Street,
			City:       r.Address.City,
			PostalCode: r.Address.PostalCode,
			Province:   r.Address.Province,
			Country:    r.Address.Country,
		},
		IsDeleted: r.IsDeleted,
		DeletedAt: r.DeletedAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newProjectRecord(p *entity.Project) *projectRecord {
	return &projectRecord{
		ID:          p.ID,
		UserID:      p.UserID,
		ClientID:    p.ClientID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		IsArchived:  p.IsArchived,
		ArchivedAt:  p.ArchivedAt,
		Deleted:     p.Deleted,
		DeletedAt:   p.DeletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *projectRecord) toEntity() *entity.Project {
	return &entity.Project{
		ID:          r.ID,
		UserID:      r.UserID,
		ClientID:    r.ClientID,
		Name:        r.Name,
		Description: r.Description,
		Status:      entity.ProjectStatus(r.Status),
		IsArchived:  r.IsArchived,
		ArchivedAt:  r.ArchivedAt,
		Deleted:     r.Deleted,
		DeletedAt:   r.DeletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newDeliveryNoteRecord(n *entity.DeliveryNote) *deliveryNoteRecord {
	lines := make([]lineRecord, 0, len(n.Lines))
	for _, l := range n.Lines {
		lines = append(lines, lineRecord{
			Description: l.Description,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
			UnitPrice:   l.UnitPrice,
		})
	}
	return &deliveryNoteRecord{
		ID:            n.ID,
		UserID:        n.UserID,
		ProjectID:     n.ProjectID,
		ClientID:      n.ClientID,
		Number:        n.Number,
		IssueDate:     n.IssueDate,
		Lines:         datatypes.NewJSONSlice(lines),
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

func (r *deliveryNoteRecord) toEntity() *entity.DeliveryNote {
	lines := make([]entity.DeliveryNoteLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, entity.DeliveryNoteLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
			UnitPrice:   l.UnitPrice,
		})
	}
	return &entity.DeliveryNote{
		ID:            r.ID,
		UserID:        r.UserID,
		ProjectID:     r.ProjectID,
		ClientID:      r.ClientID,
		Number:        r.Number,
		IssueDate:     r.IssueDate,
		Lines:         lines,
		Observations:  r.Observations,
		Status:        entity.DeliveryNoteStatus(r.Status),
		SignaturePath: r.SignaturePath,
		SignedAt:      r.SignedAt,
		PDFPath:       r.PDFPath,
		Deleted:       r.Deleted,
		DeletedAt:     r.DeletedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func newInvitationRecord(i *entity.Invitation) *invitationRecord {
	return &invitationRecord{
		ID:           i.ID,
		InvitedEmail: i.InvitedEmail,
		CompanyName:  i.CompanyName,
		InviterID:    i.InviterID,
		Token:        i.Token,
		ExpiresAt:    i.ExpiresAt,
		Status:       string(i.Status),
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func (r *invitationRecord) toEntity() *entity.Invitation {
	return &entity.Invitation{
		ID:           r.ID,
		InvitedEmail: r.InvitedEmail,
		CompanyName:  r.CompanyName,
		InviterID:    r.InviterID,
		Token:        r.Token,
		ExpiresAt:    r.ExpiresAt,
		Status:       entity.InvitationStatus(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
