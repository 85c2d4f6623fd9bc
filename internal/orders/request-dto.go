package orders

// ConfirmPurchaseRequest finalizes a held reservation into an order.
type ConfirmPurchaseRequest struct {
	SessionID     string `json:"session_id" binding:"required,uuid" validate:"required,uuid"`
	BuyerName     string `json:"buyer_name" binding:"required,max=200" validate:"required,max=200"`
	BuyerEmail    string `json:"buyer_email" binding:"required,email" validate:"required,email"`
	BuyerPhone    string `json:"buyer_phone" binding:"omitempty,max=32" validate:"omitempty,max=32"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=credit_card debit_card paypal bank_transfer" validate:"required,oneof=credit_card debit_card paypal bank_transfer"`
}
