package server

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"loja-backend/internal/model"
)

const paymentEventType = "payment"

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID model.FlexString `json:"id"`
	} `json:"data"`
}

// handleWebhook checks the shared secret and acknowledges. Anything after the
// secret check is best effort: the provider always gets a 200 so it does not
// keep retrying.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.validSecret(r.URL.Query().Get("secret")) {
		s.logger.Warnf("Webhook received with invalid secret")
		s.respondText(w, http.StatusForbidden, "Acesso negado.")
		return
	}

	event := s.readWebhookEvent(w, r)
	if event.Type == paymentEventType {
		paymentID := strings.TrimSpace(event.Data.ID.String())
		if paymentID == "" {
			s.logger.Warnf("Payment webhook received without a payment ID")
			s.respondText(w, http.StatusOK, "Webhook recebido.")
			return
		}
		s.logger.Infof("Payment webhook received for ID: %s", paymentID)

		if s.notifier != nil {
			n := model.PaymentNotification{
				Type:       event.Type,
				PaymentID:  paymentID,
				ReceivedAt: s.now().UTC(),
			}
			if err := s.notifier.Notify(r.Context(), n); err != nil {
				s.logger.Errorf("Failed to process payment webhook %s: %v", paymentID, err)
			}
		}
	}

	s.respondText(w, http.StatusOK, "Webhook recebido.")
}

func (s *Server) validSecret(got string) bool {
	if s.webhookSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.webhookSecret)) == 1
}

// readWebhookEvent decodes the JSON body, falling back to the type and
// data.id query parameters Mercado Pago also sends. Decode errors are logged
// and yield whatever the query provides.
func (s *Server) readWebhookEvent(w http.ResponseWriter, r *http.Request) webhookEvent {
	var event webhookEvent
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&event)
	if err != nil && err != io.EOF {
		s.logger.Warnf("Failed to decode webhook body: %v", err)
		event = webhookEvent{}
	}

	q := r.URL.Query()
	if event.Type == "" {
		event.Type = q.Get("type")
	}
	if event.Data.ID == "" {
		event.Data.ID = model.FlexString(q.Get("data.id"))
	}
	return event
}
