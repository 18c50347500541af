package domain

import "time"

// OrderType es la dirección de una orden.
type OrderType string

const (
	OrderBuy  OrderType = "buy"
	OrderSell OrderType = "sell"
)

// OrderRequest es la intención de trade unificada que se pasa al venue.
// No hay order book local: la orden es un pass-through a la API del venue.
type OrderRequest struct {
	MarketID    string
	Outcome     string
	OrderType   OrderType
	Quantity    int
	Price       *float64 // nil = precio de mercado
	TimeInForce string   // GTC | IOC | FOK
}

// OrderResponse es el acknowledgment unificado del venue.
// Invariante: Success=true implica OrderID poblado; Success=false implica
// ErrorMessage poblado. Nunca ambos, nunca ninguno.
type OrderResponse struct {
	Success        bool
	OrderID        string
	FilledQuantity int
	AveragePrice   *float64
	TotalCost      *float64
	Fees           float64
	ErrorMessage   string
	Timestamp      time.Time
}

// OrderFailure construye la respuesta estándar para una orden rechazada.
func OrderFailure(msg string) OrderResponse {
	return OrderResponse{
		Success:      false,
		ErrorMessage: msg,
		Timestamp:    time.Now().UTC(),
	}
}
