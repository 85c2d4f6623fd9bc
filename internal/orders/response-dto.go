package orders

import "time"

// OrderResponse is the API view of a finalized purchase.
type OrderResponse struct {
	OrderID     string              `json:"order_id"`
	OrderRef    string              `json:"order_ref"`
	EventID     string              `json:"event_id"`
	BuyerName   string              `json:"buyer_name"`
	BuyerEmail  string              `json:"buyer_email"`
	TotalSeats  int                 `json:"total_seats"`
	TotalAmount float64             `json:"total_amount"`
	Status      string              `json:"status"`
	Seats       []OrderSeatResponse `json:"seats"`
	Payment     *PaymentResponse    `json:"payment,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

type OrderSeatResponse struct {
	SeatID    string  `json:"seat_id"`
	SeatLabel string  `json:"seat_label"`
	SeatPrice float64 `json:"seat_price"`
}

type PaymentResponse struct {
	Status        string     `json:"status"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	PaymentMethod string     `json:"payment_method"`
	TransactionID string     `json:"transaction_id"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// NewOrderResponse builds the API view of an order.
func NewOrderResponse(order *Order) OrderResponse {
	resp := OrderResponse{
		OrderID:     order.ID.String(),
		OrderRef:    order.OrderRef,
		EventID:     order.EventID.String(),
		BuyerName:   order.BuyerName,
		BuyerEmail:  order.BuyerEmail,
		TotalSeats:  order.TotalSeats,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		Seats:       make([]OrderSeatResponse, 0, len(order.Seats)),
		CreatedAt:   order.CreatedAt,
	}
	for _, seat := range order.Seats {
		resp.Seats = append(resp.Seats, OrderSeatResponse{
			SeatID:    seat.SeatID.String(),
			SeatLabel: seat.SeatLabel,
			SeatPrice: seat.SeatPrice,
		})
	}
	if len(order.Payments) > 0 {
		payment := order.Payments[0]
		resp.Payment = &PaymentResponse{
			Status:        payment.Status,
			Amount:        payment.Amount,
			Currency:      payment.Currency,
			PaymentMethod: payment.PaymentMethod,
			TransactionID: payment.TransactionID,
			ProcessedAt:   payment.ProcessedAt,
		}
	}
	return resp
}
