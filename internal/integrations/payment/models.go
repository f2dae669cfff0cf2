package payment

// Request параметры списания депозита
type Request struct {
	AmountCents    int64
	Currency       string
	Token          string // payment method id от клиента
	IdempotencyKey string
	Description    string
	ReceiptEmail   string
}

// Result успешное списание
type Result struct {
	TransactionID string
	AmountCents   int64
	Currency      string
}
