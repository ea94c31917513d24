package entity

import "time"

// Estados de una entrega física.
const (
	DeliveryStatusPartial  = "partial"
	DeliveryStatusComplete = "complete"
)

// MaterialDelivery llegada física de materiales contra una solicitud. No mueve inventario.
type MaterialDelivery struct {
	ID           string
	RequestID    string
	DeliveredBy  string // texto libre: transportista o persona que entrega
	DeliveryDate time.Time
	Status       string
	ReceivedBy   string // usuario que acusa recibo
	Remarks      string
	CreatedAt    time.Time
}
