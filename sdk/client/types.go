package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record fields tagged omitzero are left out of payloads when unset, so an
// optimistic merge only overwrites what the caller actually filled in.

type Company struct {
	ID              string    `json:"id"`
	Name            string    `json:"name,omitzero"`
	CompanyType     string    `json:"companyType,omitzero"`
	Email           string    `json:"email,omitzero"`
	PhoneNumber     string    `json:"phoneNumber,omitzero"`
	WebsiteURL      string    `json:"websiteUrl,omitzero"`
	BillingAddress  string    `json:"billingAddress,omitzero"`
	ShippingAddress string    `json:"shippingAddress,omitzero"`
	Domains         []string  `json:"domains,omitzero"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
	UpdatedAt       time.Time `json:"updatedAt,omitzero"`
}

type Team struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitzero"`
	CompanyID string    `json:"companyId,omitzero"`
	RoleType  string    `json:"roleType,omitzero"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`

	Company *Company `json:"company,omitempty"`
}

type ClientRequest struct {
	ID               string         `json:"id"`
	FromClientUserID string         `json:"fromClientUserId,omitzero"`
	ProductID        string         `json:"productId,omitzero"`
	IsArchived       bool           `json:"isArchived,omitzero"`
	IsFavorite       bool           `json:"isFavorite,omitzero"`
	Email            string         `json:"email,omitzero"`
	Counter          int            `json:"counter,omitzero"`
	Fields           map[string]any `json:"fields,omitzero"`
	ImportanceType   string         `json:"importanceType,omitzero"`
	CreatedAt        time.Time      `json:"createdAt,omitzero"`
	UpdatedAt        time.Time      `json:"updatedAt,omitzero"`
}

type LiaisonRequest struct {
	ID                         string    `json:"id"`
	FromLiaisonUserID          string    `json:"fromLiaisonUserId,omitzero"`
	OriginatingClientRequestID string    `json:"originatingClientRequestId,omitzero"`
	ForwardedToSupplierID      string    `json:"forwardedToSupplierId,omitzero"`
	Notes                      string    `json:"notes,omitzero"`
	CreatedAt                  time.Time `json:"createdAt,omitzero"`
	UpdatedAt                  time.Time `json:"updatedAt,omitzero"`

	ClientRequest *ClientRequest `json:"clientRequest,omitempty"`
	Company       *Company       `json:"company,omitempty"`
}

// CostBreakdown is shared by supplier and liaison responses.
type CostBreakdown struct {
	UnitCost       decimal.NullDecimal `json:"unitCost,omitzero"`
	PrintPlateCost decimal.NullDecimal `json:"printPlateCost,omitzero"`
	DieCost        decimal.NullDecimal `json:"dieCost,omitzero"`
	OtherSetupCost decimal.NullDecimal `json:"otherSetupCost,omitzero"`
	DeliveryCost   decimal.NullDecimal `json:"deliveryCost,omitzero"`
	Tax            decimal.NullDecimal `json:"tax,omitzero"`
}

type SupplierResponse struct {
	ID                         string `json:"id"`
	RespondsToLiaisonRequestID string `json:"respondsToLiaisonRequestId,omitzero"`
	FromSupplierUserID         string `json:"fromSupplierUserId,omitzero"`
	IsApproved                 *bool  `json:"isApproved,omitempty"`
	Price                      string `json:"price,omitzero"`
	CostBreakdown
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`

	LiaisonRequest *LiaisonRequest `json:"liaisonRequest,omitempty"`
}

type LiaisonResponse struct {
	ID                            string              `json:"id"`
	OriginatingSupplierResponseID string              `json:"originatingSupplierResponseId,omitzero"`
	RespondsToClientRequestID     string              `json:"respondsToClientRequestId,omitzero"`
	FromLiaisonUserID             string              `json:"fromLiaisonUserId,omitzero"`
	Margin                        decimal.NullDecimal `json:"margin,omitzero"`
	CostBreakdown
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`

	SupplierResponse *SupplierResponse `json:"supplierResponse,omitempty"`
	ClientRequest    *ClientRequest    `json:"clientRequest,omitempty"`
}

type UsersToCompany struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"companyId,omitzero"`
	UserID        string    `json:"userId,omitzero"`
	IsApproved    bool      `json:"isApproved,omitzero"`
	IsAdmin       bool      `json:"isAdmin,omitzero"`
	IsOmnipresent bool      `json:"isOmnipresent,omitzero"`
	CreatedAt     time.Time `json:"createdAt,omitzero"`
	UpdatedAt     time.Time `json:"updatedAt,omitzero"`

	Company *Company `json:"company,omitempty"`
}

type UsersToTeam struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"teamId,omitzero"`
	UserID    string    `json:"userId,omitzero"`
	IsAdmin   bool      `json:"isAdmin,omitzero"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`

	Team *Team `json:"team,omitempty"`
}

// RecordID and SetRecordID let the optimistic store address any record.

func (r Company) RecordID() string { return r.ID }
func (r *Company) SetRecordID(id string) { r.ID = id }
func (r Team) RecordID() string { return r.ID }
func (r *Team) SetRecordID(id string) { r.ID = id }
func (r ClientRequest) RecordID() string { return r.ID }
func (r *ClientRequest) SetRecordID(id string) { r.ID = id }
func (r LiaisonRequest) RecordID() string { return r.ID }
func (r *LiaisonRequest) SetRecordID(id string) { r.ID = id }
func (r SupplierResponse) RecordID() string { return r.ID }
func (r *SupplierResponse) SetRecordID(id string) { r.ID = id }
func (r LiaisonResponse) RecordID() string { return r.ID }
func (r *LiaisonResponse) SetRecordID(id string) { r.ID = id }
func (r UsersToCompany) RecordID() string { return r.ID }
func (r *UsersToCompany) SetRecordID(id string) { r.ID = id }
func (r UsersToTeam) RecordID() string { return r.ID }
func (r *UsersToTeam) SetRecordID(id string) { r.ID = id }

// Create and update inputs. Update inputs carry the id of the row they
// replace; the client also sends it as ?id=.

type NewCompany struct {
	Name            string   `json:"name"`
	CompanyType     string   `json:"companyType"`
	Email           string   `json:"email,omitempty"`
	PhoneNumber     string   `json:"phoneNumber,omitempty"`
	WebsiteURL      string   `json:"websiteUrl,omitempty"`
	BillingAddress  string   `json:"billingAddress,omitempty"`
	ShippingAddress string   `json:"shippingAddress,omitempty"`
	Domains         []string `json:"domains,omitempty"`
	Passphrase      string   `json:"passphrase,omitempty"`
}

type UpdateCompany struct {
	ID string `json:"id"`
	NewCompany
}

type NewTeam struct {
	Title     string `json:"title"`
	CompanyID string `json:"companyId"`
	RoleType  string `json:"roleType"`
}

type UpdateTeam struct {
	ID string `json:"id"`
	NewTeam
}

type NewClientRequest struct {
	ProductID      string         `json:"productId"`
	IsArchived     bool           `json:"isArchived"`
	IsFavorite     bool           `json:"isFavorite"`
	Email          string         `json:"email,omitempty"`
	Counter        int            `json:"counter"`
	Fields         map[string]any `json:"fields,omitempty"`
	ImportanceType string         `json:"importanceType"`
}

type UpdateClientRequest struct {
	ID string `json:"id"`
	NewClientRequest
}

type NewLiaisonRequest struct {
	OriginatingClientRequestID string `json:"originatingClientRequestId"`
	ForwardedToSupplierID      string `json:"forwardedToSupplierId"`
	Notes                      string `json:"notes,omitempty"`
}

type UpdateLiaisonRequest struct {
	ID string `json:"id"`
	NewLiaisonRequest
}

// Costs is the cost breakdown input of both response kinds.
type Costs struct {
	UnitCost       decimal.NullDecimal `json:"unitCost,omitzero"`
	PrintPlateCost decimal.NullDecimal `json:"printPlateCost,omitzero"`
	DieCost        decimal.NullDecimal `json:"dieCost,omitzero"`
	OtherSetupCost decimal.NullDecimal `json:"otherSetupCost,omitzero"`
	DeliveryCost   decimal.NullDecimal `json:"deliveryCost,omitzero"`
	Tax            decimal.NullDecimal `json:"tax,omitzero"`
}

type NewSupplierResponse struct {
	RespondsToLiaisonRequestID string `json:"respondsToLiaisonRequestId"`
	IsApproved                 *bool  `json:"isApproved,omitempty"`
	Price                      string `json:"price,omitempty"`
	Costs
}

type UpdateSupplierResponse struct {
	ID string `json:"id"`
	NewSupplierResponse
}

type NewLiaisonResponse struct {
	OriginatingSupplierResponseID string              `json:"originatingSupplierResponseId"`
	RespondsToClientRequestID     string              `json:"respondsToClientRequestId"`
	Margin                        decimal.NullDecimal `json:"margin,omitzero"`
	Costs
}

type UpdateLiaisonResponse struct {
	ID string `json:"id"`
	NewLiaisonResponse
}

// NewUsersToCompany requests a pending membership. Approval comes from
// Client.JoinCompany.
type NewUsersToCompany struct {
	CompanyID     string `json:"companyId"`
	IsOmnipresent bool   `json:"isOmnipresent"`
}

type UpdateUsersToCompany struct {
	ID string `json:"id"`
	NewUsersToCompany
}

type NewUsersToTeam struct {
	TeamID  string `json:"teamId"`
	IsAdmin bool   `json:"isAdmin"`
}

type UpdateUsersToTeam struct {
	ID string `json:"id"`
	NewUsersToTeam
}

// AuditLog is one entry of the caller's audit trail.
type AuditLog struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Action       string         `json:"action"`
	EntityType   string         `json:"entityType"`
	EntityID     string         `json:"entityId"`
	ActorID      string         `json:"actorId"`
	Result       bool           `json:"result"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	Context      map[string]any `json:"context,omitempty"`
	RequestID    string         `json:"requestId,omitempty"`
	ClientIP     string         `json:"clientIp,omitempty"`
	UserAgent    string         `json:"userAgent,omitempty"`
}

// AuditLogPage is one page of GET /api/audit-logs.
type AuditLogPage struct {
	Logs   []AuditLog `json:"logs"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}
