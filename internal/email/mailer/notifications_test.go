package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/dangerclosesec/liaison/internal/email"
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []email.EmailData
	err  error
}

func (s *recordingSender) SendEmail(data email.EmailData) error {
	s.sent = append(s.sent, data)
	return s.err
}

func TestSupplierRequestForwarded(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, "https://liaison.test")

	supplier := &model.Company{ID: "S1", Name: "Acme Print", Email: "quotes@acme.test"}
	request := &model.LiaisonRequest{ID: "LR1", Notes: "rush order"}
	clientRequest := &model.ClientRequest{ID: "CR1", ProductID: "P1"}

	require.NoError(t, n.SupplierRequestForwarded(context.Background(), supplier, request, clientRequest))

	require.Len(t, sender.sent, 1)
	sent := sender.sent[0]
	assert.Equal(t, "quotes@acme.test", sent.To)
	assert.Equal(t, "supplier_request", sent.TemplateName)
	assert.Equal(t, SupplierRequestTemplateData{
		CompanyName: "Acme Print",
		ProductID:   "P1",
		Notes:       "rush order",
		Link:        "https://liaison.test/liaisonRequests/LR1",
	}, sent.TemplateData)
}

func TestSupplierWithoutEmailIsSkipped(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, "https://liaison.test")

	require.NoError(t, n.SupplierRequestForwarded(context.Background(), &model.Company{ID: "S1"}, &model.LiaisonRequest{ID: "LR1"}, nil))
	require.NoError(t, n.SupplierRequestForwarded(context.Background(), nil, &model.LiaisonRequest{ID: "LR1"}, nil))

	assert.Empty(t, sender.sent)
}

func TestQuoteReady(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	n := NewNotifier(sender, "https://liaison.test")

	response := &model.LiaisonResponse{ID: "LQ1"}
	response.UnitCost = decimal.NewNullDecimal(decimal.RequireFromString("12.5"))

	err := n.QuoteReady(context.Background(), &model.ClientRequest{ID: "CR1", ProductID: "P1", Email: "buyer@client.test"}, response)

	assert.EqualError(t, err, "smtp down")
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "buyer@client.test", sender.sent[0].To)
	assert.Equal(t, QuoteReadyTemplateData{
		ProductID: "P1",
		UnitCost:  "12.50",
		Link:      "https://liaison.test/liaisonResponses/LQ1",
	}, sender.sent[0].TemplateData)
}
