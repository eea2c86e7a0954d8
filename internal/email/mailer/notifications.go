// internal/email/mailer/notifications.go
package mailer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dangerclosesec/liaison/internal/email"
	"github.com/dangerclosesec/liaison/internal/model"
)

// Sender is the part of email.Service the notifier needs.
type Sender interface {
	SendEmail(data email.EmailData) error
}

// SupplierRequestTemplateData feeds templates/emails/supplier_request
type SupplierRequestTemplateData struct {
	CompanyName string
	ProductID   string
	Notes       string
	Link        string
}

// QuoteReadyTemplateData feeds templates/emails/quote_ready
type QuoteReadyTemplateData struct {
	ProductID string
	UnitCost  string
	Link      string
}

// Notifier sends the workflow emails.
type Notifier struct {
	sender  Sender
	baseURL string
}

func NewNotifier(sender Sender, baseURL string) *Notifier {
	return &Notifier{sender: sender, baseURL: baseURL}
}

// SupplierRequestForwarded tells the supplier company a liaison forwarded a
// client request to them. Companies without an email are skipped.
func (n *Notifier) SupplierRequestForwarded(ctx context.Context, supplier *model.Company, request *model.LiaisonRequest, clientRequest *model.ClientRequest) error {
	if supplier == nil || supplier.Email == "" {
		return nil
	}

	data := SupplierRequestTemplateData{
		CompanyName: supplier.Name,
		Notes:       request.Notes,
		Link:        n.link("liaisonRequests", request.ID),
	}
	if clientRequest != nil {
		data.ProductID = clientRequest.ProductID
	}

	return n.sender.SendEmail(email.EmailData{
		To:           supplier.Email,
		Subject:      fmt.Sprintf("New request for %s", supplier.Name),
		TemplateName: "supplier_request",
		TemplateData: data,
	})
}

// QuoteReady tells the client a liaison response is available.
func (n *Notifier) QuoteReady(ctx context.Context, clientRequest *model.ClientRequest, response *model.LiaisonResponse) error {
	if clientRequest == nil || clientRequest.Email == "" {
		return nil
	}

	data := QuoteReadyTemplateData{
		ProductID: clientRequest.ProductID,
		Link:      n.link("liaisonResponses", response.ID),
	}
	if response.UnitCost.Valid {
		data.UnitCost = response.UnitCost.Decimal.StringFixed(2)
	}

	return n.sender.SendEmail(email.EmailData{
		To:           clientRequest.Email,
		Subject:      "Your quote is ready",
		TemplateName: "quote_ready",
		TemplateData: data,
	})
}

func (n *Notifier) link(resource, id string) string {
	return fmt.Sprintf("%s/%s/%s", n.baseURL, resource, url.PathEscape(id))
}
