package providers

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayProvider implements PaymentProvider against the Razorpay Orders
// API. Timeouts and retries toward the gateway are the SDK client's concern.
type RazorpayProvider struct {
	client *razorpay.Client
}

// NewRazorpayProvider creates a provider using the given API key pair.
func NewRazorpayProvider(keyID, keySecret string) *RazorpayProvider {
	return &RazorpayProvider{client: razorpay.NewClient(keyID, keySecret)}
}

func (p *RazorpayProvider) CreateOrder(req OrderRequest) (*ProviderOrder, error) {
	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}

	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    notes,
	}

	body, err := p.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create failed: %w", err)
	}
	return orderFromBody(body)
}

func (p *RazorpayProvider) FetchOrder(orderID string) (*ProviderOrder, error) {
	body, err := p.client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order fetch failed: %w", err)
	}
	return orderFromBody(body)
}

// orderFromBody maps the SDK's untyped response into a ProviderOrder.
func orderFromBody(body map[string]interface{}) (*ProviderOrder, error) {
	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("razorpay response missing order id")
	}

	order := &ProviderOrder{ID: id, Notes: map[string]string{}}

	switch amt := body["amount"].(type) {
	case float64:
		order.Amount = int64(amt)
	case int64:
		order.Amount = amt
	}
	if currency, ok := body["currency"].(string); ok {
		order.Currency = currency
	}
	if receipt, ok := body["receipt"].(string); ok {
		order.Receipt = receipt
	}
	if notes, ok := body["notes"].(map[string]interface{}); ok {
		for k, v := range notes {
			if s, ok := v.(string); ok {
				order.Notes[k] = s
			}
		}
	}
	return order, nil
}
