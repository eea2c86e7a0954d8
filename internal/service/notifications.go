package service

import (
	"context"

	"github.com/dangerclosesec/liaison/internal/model"
)

// Notifier sends the workflow emails. Implemented by mailer.Notifier.
type Notifier interface {
	SupplierRequestForwarded(ctx context.Context, supplier *model.Company, request *model.LiaisonRequest, clientRequest *model.ClientRequest) error
	QuoteReady(ctx context.Context, clientRequest *model.ClientRequest, response *model.LiaisonResponse) error
}

// NoopNotifier is used when no email provider is configured.
type NoopNotifier struct{}

func (NoopNotifier) SupplierRequestForwarded(context.Context, *model.Company, *model.LiaisonRequest, *model.ClientRequest) error {
	return nil
}

func (NoopNotifier) QuoteReady(context.Context, *model.ClientRequest, *model.LiaisonResponse) error {
	return nil
}
