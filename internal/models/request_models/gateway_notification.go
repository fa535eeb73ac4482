package request_models

// GatewayNotification is the typed form of a gateway webhook body. The raw
// payload is parsed into this before any branching so casing/field-name
// variations never leak into the reconciliation logic.
type GatewayNotification struct {
	TranRef       string         `json:"tran_ref"`
	CartID        string         `json:"cart_id"`
	CartAmount    string         `json:"cart_amount"`
	CartCurrency  string         `json:"cart_currency"`
	PaymentResult *PaymentResult `json:"payment_result"`
}

type PaymentResult struct {
	ResponseStatus  string `json:"response_status"`
	ResponseCode    string `json:"response_code"`
	ResponseMessage string `json:"response_message"`
	TransactionTime string `json:"transaction_time"`
}

// ReturnParams are the values a browser redirect may carry back from the
// hosted payment page. All three are optional; resolution priority is
// payment_id, then tran_ref, then cart_id.
type ReturnParams struct {
	PaymentID string `form:"payment_id" json:"payment_id"`
	TranRef   string `form:"tranRef" json:"tranRef"`
	CartID    string `form:"cartId" json:"cartId"`
}
