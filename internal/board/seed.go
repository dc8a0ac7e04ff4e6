package board

import (
	"time"

	"github.com/google/uuid"

	"github.com/rotacarga/freight-crm/internal/model"
)

// SeedDeals returns the development dataset the boards boot with when the
// store starts empty: three quotation cards and two operation cards.
func SeedDeals() []model.Deal {
	now := time.Now().UTC()
	carlos := "Carlos Silva"
	return []model.Deal{
		{
			ID:          uuid.NewString(),
			Title:       "Carga de Eletrônicos #4023",
			ClientName:  "TechVarejo Ltda",
			Origin:      "São Paulo, SP",
			Destination: "Curitiba, PR",
			Weight:      1200,
			Volume:      3.5,
			Value:       4500,
			Status:      model.ColNewRequest,
			Board:       model.BoardQuotation,
			CreatedAt:   now,
			UpdatedAt:   now,
			IsLate:      true,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Transporte de Máquinas #4024",
			ClientName:  "Indústria ABC",
			Origin:      "Campinas, SP",
			Destination: "Belo Horizonte, MG",
			Weight:      5000,
			Volume:      12,
			Value:       12000,
			Status:      model.ColPricing,
			Board:       model.BoardQuotation,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Entrega Urgente - Peças Automotivas",
			ClientName:  "AutoParts S.A.",
			Origin:      "Guarulhos, SP",
			Destination: "Resende, RJ",
			Weight:      800,
			Volume:      2,
			Value:       3200,
			Status:      model.ColSentToClient,
			Board:       model.BoardQuotation,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Carga Frigorificada #901",
			ClientName:  "Alimentos Frescos",
			Origin:      "Uberlândia, MG",
			Destination: "São Paulo, SP",
			Weight:      15000,
			Volume:      40,
			Value:       28000,
			Status:      model.ColInTransit,
			Board:       model.BoardOperation,
			CreatedAt:   now,
			UpdatedAt:   now,
			DriverName:  &carlos,
			MissingDocs: true,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Material de Construção #902",
			ClientName:  "Construtora Forte",
			Origin:      "Sorocaba, SP",
			Destination: "Rio de Janeiro, RJ",
			Weight:      25000,
			Volume:      60,
			Value:       18000,
			Status:      model.ColOrderCreated,
			Board:       model.BoardOperation,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
