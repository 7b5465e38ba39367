package providers

// OrderRequest is a provider order to be created. Amount is in minor
// currency units; Notes carries metadata the provider stores with the order
// so checkout can recover it independently of client-supplied data.
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// ProviderOrder is an order as held by the payment provider.
type ProviderOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// PaymentProvider defines the interface all payment gateway integrations
// must implement.
type PaymentProvider interface {
	// CreateOrder registers an order with the gateway and returns its handle.
	CreateOrder(req OrderRequest) (*ProviderOrder, error)

	// FetchOrder retrieves a previously created order, including its notes.
	FetchOrder(orderID string) (*ProviderOrder, error)
}
