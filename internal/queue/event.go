// Package queue defines message payloads exchanged over the message broker.
package queue

// Deal event types published on the deal.events queue.
const (
	DealCreated = "deal.created"
	DealMoved   = "deal.moved"
)

// DealEvent is published when a card is created or dragged to another
// column.  It carries enough information for downstream consumers to log or
// notify without querying the application.
type DealEvent struct {
	Type       string `json:"type"`
	DealID     string `json:"deal_id"`
	Title      string `json:"title"`
	ClientName string `json:"client_name"`
	Board      string `json:"board"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}
