package request

// PaymentNotificationRequest is the payload of provider callbacks for both
// successful and failed payments. Signature is hex HMAC-SHA256 over
// "order_id|payment_id".
type PaymentNotificationRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required,len=64,hexadecimal"`
}
