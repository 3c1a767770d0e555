package menus

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	pkgerrors "github.com/sumopedidos/sumo-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMenusTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Menu{}, &models.MenuItem{}))
	return db
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupMenusTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func TestCreateMenuWithItems(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	pizza := "Pizzas"
	menu, err := svc.Create(ctx, CreateMenuInput{
		Title: "  PizzBur Fran ",
		Items: []CreateItemInput{
			{Name: "Pizza Muzza", PriceGs: 27000, Category: &pizza},
			{Name: "Empanada", PriceGs: 7000, Inactive: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PizzBur Fran", menu.Title)
	assert.NotEqual(t, uuid.Nil, menu.ID)

	loaded, err := svc.Get(ctx, menu.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)

	active, err := svc.ActiveItems(ctx, menu.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Pizza Muzza", active[0].Name)
}

func TestCreateMenuValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateMenuInput{Title: " "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, CreateMenuInput{Title: "x", Items: []CreateItemInput{{Name: "a", PriceGs: -1}}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGetMissingMenu(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestOrderableItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	menu, err := svc.Create(ctx, CreateMenuInput{
		Title: "Menu",
		Items: []CreateItemInput{
			{Name: "Burger", PriceGs: 27000},
			{Name: "Papas", PriceGs: 12000, Inactive: true},
		},
	})
	require.NoError(t, err)
	other, err := svc.Create(ctx, CreateMenuInput{Title: "Other", Items: []CreateItemInput{{Name: "Sushi", PriceGs: 50000}}})
	require.NoError(t, err)

	item, err := svc.OrderableItem(ctx, menu.ID, menu.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(27000), item.PriceGs)

	_, err = svc.OrderableItem(ctx, menu.ID, menu.Items[1].ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "inactive item")

	_, err = svc.OrderableItem(ctx, menu.ID, other.Items[0].ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "item from another menu")

	_, err = svc.OrderableItem(ctx, menu.ID, uuid.Nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "nil item")
}

func TestEnsureMenuIsIdempotentByTitle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	input := CreateMenuInput{
		Title: "PizzBur Fran",
		Items: []CreateItemInput{{Name: "Empanada", PriceGs: 7000}},
	}

	first, created, err := svc.Ensure(ctx, input)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.Ensure(ctx, input)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Items, 1)
}
