package bootstrap

import (
	"context"
	"time"

	"github.com/sumopedidos/sumo-backend/internal/grouporders"
	"github.com/sumopedidos/sumo-backend/internal/menus"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
	pkgerrors "github.com/sumopedidos/sumo-backend/pkg/errors"
	"github.com/sumopedidos/sumo-backend/pkg/logger"
)

const (
	DemoMenuTitle = "PizzBur Fran"
	DemoOrderSlug = "martes-chill-cena"
)

// SeedResult reports what Seed stored.
type SeedResult struct {
	MenuCreated  bool
	OrderCreated bool
	OrderSlug    string
}

// Seed stores the demo menu and an open group order closing a day after now.
// Running it again leaves existing rows untouched.
func Seed(ctx context.Context, services *Services, logg *logger.Logger, now time.Time) (*SeedResult, error) {
	menu, created, err := services.Menus.Ensure(ctx, menus.CreateMenuInput{
		Title: DemoMenuTitle,
		Items: []menus.CreateItemInput{
			{Name: "Pizza Muzza", PriceGs: 27000},
			{Name: "Hamburguesa Completa", PriceGs: 27000},
			{Name: "Empanada de Carne", PriceGs: 7000},
			{Name: "Papas Fritas", PriceGs: 12000},
		},
	})
	if err != nil {
		return nil, err
	}
	result := &SeedResult{MenuCreated: created, OrderSlug: DemoOrderSlug}

	minTotal := int64(300000)
	company := "PizzBur Fran"
	_, err = services.GroupOrders.Create(ctx, grouporders.CreateGroupOrderInput{
		MenuID:         menu.ID,
		Slug:           DemoOrderSlug,
		Deadline:       now.Add(24 * time.Hour),
		DeliveryCostGs: 30000,
		MinTotalGs:     &minTotal,
		SplitStrategy:  enums.SplitStrategyEven,
		CompanyName:    &company,
	})
	switch {
	case err == nil:
		result.OrderCreated = true
	case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
		if logg != nil {
			logg.Info(logg.WithField(ctx, "slug", DemoOrderSlug), "demo order already present")
		}
	default:
		return nil, err
	}
	return result, nil
}
