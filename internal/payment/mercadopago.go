// Package payment creates checkout preferences with Mercado Pago.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"loja-backend/internal/logger"
	"loja-backend/internal/model"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

// CurrencyID is the only currency the store sells in.
const CurrencyID = "BRL"

// autoReturn sends the buyer back to the success URL once the payment is approved.
const autoReturn = "approved"

// BackURLs are the frontend pages Mercado Pago redirects to after checkout.
type BackURLs struct {
	Success string
	Failure string
	Pending string
}

// preferenceCreator is the part of the SDK preference client we use.
type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

// MercadoPago creates preferences using the official SDK.
type MercadoPago struct {
	client   preferenceCreator
	backURLs BackURLs
	logger   logger.Logger
}

// NewMercadoPago configures the SDK with a bearer access token.
func NewMercadoPago(accessToken string, backURLs BackURLs, log logger.Logger) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to configure mercado pago: %w", err)
	}
	return &MercadoPago{
		client:   preference.NewClient(cfg),
		backURLs: backURLs,
		logger:   log,
	}, nil
}

// CreatePreference opens a checkout for the given items and payer.
func (m *MercadoPago) CreatePreference(ctx context.Context, req model.PreferenceRequest) (*model.Preference, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("preference needs at least one item")
	}

	resp, err := m.client.Create(ctx, m.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("mercado pago create preference: %w", err)
	}

	m.logger.Infof("Created preference %s with %d items", resp.ID, len(req.Items))
	return &model.Preference{
		ID:               resp.ID,
		InitPoint:        resp.InitPoint,
		SandboxInitPoint: resp.SandboxInitPoint,
	}, nil
}

func (m *MercadoPago) buildRequest(req model.PreferenceRequest) preference.Request {
	items := make([]preference.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, preference.ItemRequest{
			ID:         item.ID,
			Title:      item.Title,
			Quantity:   int(math.Round(item.Quantity)),
			UnitPrice:  item.UnitPrice,
			CurrencyID: CurrencyID,
		})
	}

	return preference.Request{
		Items: items,
		Payer: &preference.PayerRequest{
			Name:  req.Payer.Name,
			Email: req.Payer.Email,
		},
		BackURLs: &preference.BackURLsRequest{
			Success: m.backURLs.Success,
			Failure: m.backURLs.Failure,
			Pending: m.backURLs.Pending,
		},
		AutoReturn:      autoReturn,
		NotificationURL: req.NotificationURL,
	}
}
