package clients

import "time"

// Client is a customer account. The fiscal fields are optional until
// the client asks for invoices.
type Client struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	TaxID        string    `json:"tax_id,omitempty"`
	TaxUsageCode string    `json:"tax_usage_code,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FiscalComplete reports whether the client can be invoiced.
func (c Client) FiscalComplete() bool {
	return c.TaxID != "" && c.TaxUsageCode != "" && c.PostalCode != ""
}

// ListFilters narrows the client list.
type ListFilters struct {
	Search string
	Page   int
	Limit  int
}
