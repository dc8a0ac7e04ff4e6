package model

import "time"

// BoardType selects one of the two fixed pipelines.  Every deal belongs to
// exactly one board and every column belongs to exactly one board.
type BoardType string

const (
	BoardQuotation BoardType = "quotation" // freight quotation pipeline
	BoardOperation BoardType = "operation" // road-haulage operation pipeline
)

// ColumnID identifies a pipeline stage.  The thirteen identifiers are
// partitioned into two disjoint sets, one per board.  Columns are static:
// they are never created or deleted at runtime.
type ColumnID string

const (
	// Quotation board
	ColNewRequest    ColumnID = "new_request"
	ColQualification ColumnID = "qualification"
	ColPricing       ColumnID = "pricing"
	ColSentToClient  ColumnID = "sent_to_client"
	ColNegotiation   ColumnID = "negotiation"
	ColWon           ColumnID = "won"
	ColLost          ColumnID = "lost"

	// Operation board
	ColOrderCreated  ColumnID = "order_created"
	ColDriverSearch  ColumnID = "driver_search"
	ColDocumentation ColumnID = "documentation"
	ColCollection    ColumnID = "collection"
	ColInTransit     ColumnID = "in_transit"
	ColDelivered     ColumnID = "delivered"
)

// Column describes one pipeline stage as presented on a board: its
// identifier, display title and an optional visual tag used by clients to
// tint the column.
type Column struct {
	ID    ColumnID `json:"id"`
	Title string   `json:"title"`
	Color string   `json:"color,omitempty"`
}

// BoardColumns maps each board to its ordered column set: seven columns for
// quotation, six for operation.
var BoardColumns = map[BoardType][]Column{
	BoardQuotation: {
		{ID: ColNewRequest, Title: "Novo Pedido", Color: "blue"},
		{ID: ColQualification, Title: "Qualificação"},
		{ID: ColPricing, Title: "Precificação"},
		{ID: ColSentToClient, Title: "Enviado ao Cliente"},
		{ID: ColNegotiation, Title: "Negociação"},
		{ID: ColWon, Title: "Ganho", Color: "green"},
		{ID: ColLost, Title: "Perdido", Color: "red"},
	},
	BoardOperation: {
		{ID: ColOrderCreated, Title: "Ordem Criada"},
		{ID: ColDriverSearch, Title: "Busca de Motorista"},
		{ID: ColDocumentation, Title: "Documentação"},
		{ID: ColCollection, Title: "Coleta Realizada"},
		{ID: ColInTransit, Title: "Em Trânsito", Color: "yellow"},
		{ID: ColDelivered, Title: "Entregue (Canhoto)", Color: "green"},
	},
}

// InitialStatus returns the column a freshly created deal enters on the
// given board.
func InitialStatus(b BoardType) ColumnID {
	if b == BoardOperation {
		return ColOrderCreated
	}
	return ColNewRequest
}

// ValidBoard reports whether b is one of the two known boards.
func ValidBoard(b BoardType) bool {
	return b == BoardQuotation || b == BoardOperation
}

// BoardOf returns the board that owns the given column, or "" when the
// column id is unknown.
func BoardOf(id ColumnID) BoardType {
	for board, cols := range BoardColumns {
		for _, c := range cols {
			if c.ID == id {
				return board
			}
		}
	}
	return ""
}

// Deal is a tracked shipment or quote moving through a pipeline.  The fixed
// core carries the always-present freight attributes; Custom carries values
// for stage-defined schema fields keyed by the field key.
//
// Fields:
//  ID          – opaque unique identifier, immutable after creation.
//  Title       – short human description of the cargo.
//  ClientName  – name of the requesting client.
//  Origin      – free-text pickup location.
//  Destination – free-text delivery location.
//  Weight      – cargo weight in kg, never negative.
//  Volume      – cargo volume in m³, never negative.
//  Value       – monetary value of the deal.
//  Status      – current column; must belong to Board's column set.
//  Board       – owning pipeline, fixed at creation.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – refreshed on every mutation.
type Deal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ClientName  string    `json:"clientName"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Weight      float64   `json:"weight"` // kg
	Volume      float64   `json:"volume"` // m3
	Value       float64   `json:"value"`
	Status      ColumnID  `json:"status"`
	Board       BoardType `json:"board"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Qualification details
	Deadline         *time.Time `json:"deadline,omitempty"`
	Restrictions     *string    `json:"restrictions,omitempty"`
	MerchandiseValue *float64   `json:"merchandiseValue,omitempty"`

	// Pricing details
	BaseFreight       *float64 `json:"baseFreight,omitempty"`
	Tolls             *float64 `json:"tolls,omitempty"`
	RiskManagementFee *float64 `json:"riskManagementFee,omitempty"`
	Margin            *float64 `json:"margin,omitempty"`

	// Operation details
	DriverName    *string `json:"driverName,omitempty"`
	DriverVehicle *string `json:"driverVehicle,omitempty"`
	NFeKey        *string `json:"nfeKey,omitempty"`
	PodURL        *string `json:"podUrl,omitempty"`

	// Alerts
	IsLate      bool `json:"isLate,omitempty"`
	MissingDocs bool `json:"missingDocs,omitempty"`

	// Custom holds values for schema-defined fields.
	Custom map[string]FieldValue `json:"custom,omitempty"`
}
