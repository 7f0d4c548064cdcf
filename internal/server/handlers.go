package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"loja-backend/internal/catalog"
	"loja-backend/internal/model"

	"github.com/gorilla/mux"
)

type healthResponse struct {
	Message string `json:"mensagem"`
	Version string `json:"versao"`
	Status  string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, healthResponse{
		Message: "Backend da Loja da Profe funcionando!",
		Version: s.version,
		Status:  "online",
	})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.List(r.Context())
	if err != nil {
		s.logger.Errorf("Failed to list products: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Erro interno ao buscar produtos da planilha.")
		return
	}
	s.respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := s.catalog.Find(r.Context(), id)
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		s.respondError(w, http.StatusNotFound, "Produto não encontrado.")
	case err != nil:
		s.logger.Errorf("Failed to fetch product %s: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "Erro interno ao buscar o produto.")
	default:
		s.respondJSON(w, http.StatusOK, product)
	}
}

type preferenceItemBody struct {
	ID        model.FlexString `json:"id"`
	Title     string           `json:"title"`
	Quantity  model.FlexNumber `json:"quantity"`
	UnitPrice model.FlexNumber `json:"unit_price"`
}

type payerBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createPreferenceBody struct {
	Items []preferenceItemBody `json:"items"`
	Payer *payerBody           `json:"payer"`
}

func (s *Server) handleCreatePreference(w http.ResponseWriter, r *http.Request) {
	var body createPreferenceBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.logger.Warnf("Rejected preference request body: %v", err)
		s.respondError(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	if len(body.Items) == 0 {
		s.respondError(w, http.StatusBadRequest, "Itens são obrigatórios para criar a preferência.")
		return
	}

	req := model.PreferenceRequest{
		Items:           make([]model.PreferenceItem, 0, len(body.Items)),
		NotificationURL: notificationURL(r, s.webhookSecret),
	}
	for _, item := range body.Items {
		req.Items = append(req.Items, model.PreferenceItem{
			ID:        item.ID.String(),
			Title:     item.Title,
			Quantity:  item.Quantity.Float64(),
			UnitPrice: item.UnitPrice.Float64(),
		})
	}
	if body.Payer != nil {
		req.Payer = model.Payer{Name: body.Payer.Name, Email: body.Payer.Email}
	}

	pref, err := s.payments.CreatePreference(r.Context(), req)
	if err != nil {
		s.logger.Errorf("Failed to create Mercado Pago preference: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Falha ao comunicar com o Mercado Pago.")
		return
	}
	s.respondJSON(w, http.StatusCreated, pref)
}

// notificationURL points the provider back at this service's webhook, using
// the scheme and host the request arrived on. An http or https
// X-Forwarded-Proto wins over the connection's own scheme; any other value is
// ignored.
func notificationURL(r *http.Request, secret string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		switch p := strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0])); p {
		case "http", "https":
			scheme = p
		}
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     webhookPath,
		RawQuery: url.Values{"secret": {secret}}.Encode(),
	}
	return u.String()
}
