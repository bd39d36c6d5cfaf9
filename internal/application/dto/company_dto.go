package dto

// UpdateCompanyRequest parche de la empresa embebida del usuario (campos opcionales).
type UpdateCompanyRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=150"`
	Address *string `json:"address" validate:"omitempty,max=250"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Email   *string `json:"email" validate:"omitempty,email"`
	TaxID   *string `json:"tax_id" validate:"omitempty,max=20"`
	Website *string `json:"website" validate:"omitempty,max=200"`
}

// CompanyResponse salida de la empresa embebida.
type CompanyResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}
