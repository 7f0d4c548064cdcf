package model

import "time"

// PreferenceItem is a single line item of a checkout.
type PreferenceItem struct {
	ID        string
	Title     string
	Quantity  float64
	UnitPrice float64
}

type Payer struct {
	Name  string
	Email string
}

// PreferenceRequest carries everything the payment adapter needs to open a checkout.
type PreferenceRequest struct {
	Items           []PreferenceItem
	Payer           Payer
	NotificationURL string
}

// Preference is the provider's answer, returned to the caller verbatim.
type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// PaymentNotification is what the webhook hands over once a payment event was accepted.
type PaymentNotification struct {
	Type       string    `json:"type"`
	PaymentID  string    `json:"payment_id"`
	ReceivedAt time.Time `json:"received_at"`
}
