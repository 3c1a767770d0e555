package grouporders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/sumopedidos/sumo-backend/internal/menus"
	"github.com/sumopedidos/sumo-backend/internal/notifications"
	"github.com/sumopedidos/sumo-backend/pkg/db"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
	"github.com/sumopedidos/sumo-backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 3, 20, 0, 0, 0, time.UTC)

type fakeNotifier struct {
	mu        sync.Mutex
	calls     map[enums.NotificationKind]int
	lastLines []models.OrderLine
	lastOrder *models.GroupOrder
	override  string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: map[enums.NotificationKind]int{}}
}

func (f *fakeNotifier) record(kind enums.NotificationKind, order *models.GroupOrder, lines []models.OrderLine) notifications.BatchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[kind]++
	f.lastOrder = order
	f.lastLines = append([]models.OrderLine(nil), lines...)
	batch := notifications.BatchResult{Kind: kind}
	for _, line := range lines {
		batch.Results = append(batch.Results, notifications.Outcome{LineID: line.ID, OK: true})
		batch.Sent++
	}
	return batch
}

func (f *fakeNotifier) LineConfirmation(_ context.Context, order *models.GroupOrder, line models.OrderLine) notifications.Outcome {
	f.record(enums.NotificationKindLineConfirmation, order, []models.OrderLine{line})
	return notifications.Outcome{LineID: line.ID, OK: true}
}

func (f *fakeNotifier) OrderClosed(_ context.Context, order *models.GroupOrder, lines []models.OrderLine) notifications.BatchResult {
	return f.record(enums.NotificationKindOrderClosed, order, lines)
}

func (f *fakeNotifier) OrderCancelled(_ context.Context, order *models.GroupOrder, lines []models.OrderLine) notifications.BatchResult {
	return f.record(enums.NotificationKindOrderCancelled, order, lines)
}

func (f *fakeNotifier) OrderDelivered(_ context.Context, order *models.GroupOrder, lines []models.OrderLine) notifications.BatchResult {
	return f.record(enums.NotificationKindOrderDelivered, order, lines)
}

func (f *fakeNotifier) PaymentReminder(_ context.Context, order *models.GroupOrder, line models.OrderLine, bankOverride string) notifications.Outcome {
	f.record(enums.NotificationKindPaymentReminder, order, []models.OrderLine{line})
	f.mu.Lock()
	f.override = bankOverride
	f.mu.Unlock()
	return notifications.Outcome{LineID: line.ID, OK: true}
}

func (f *fakeNotifier) count(kind enums.NotificationKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[kind]
}

type fakeMetrics struct {
	closeOutcomes map[string]int
	delivered     int
}

func (f *fakeMetrics) IncCloseOutcome(outcome string) {
	if f.closeOutcomes == nil {
		f.closeOutcomes = map[string]int{}
	}
	f.closeOutcomes[outcome]++
}

func (f *fakeMetrics) IncDelivered() { f.delivered++ }

type fixture struct {
	db       *gorm.DB
	svc      Service
	repo     Repository
	notifier *fakeNotifier
	metrics  *fakeMetrics
	menu     *models.Menu
	menus    MenuLookup
}

// newFixture opens a private in-memory database with the PizzBur Fran menu:
// two 27000 items, one 7000 and one 12000, plus an inactive item.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	menuSvc, err := menus.NewService(menus.NewRepository(conn))
	require.NoError(t, err)
	menu, err := menuSvc.Create(context.Background(), menus.CreateMenuInput{
		Title: "PizzBur Fran",
		Items: []menus.CreateItemInput{
			{Name: "Pizza Muzza", PriceGs: 27000},
			{Name: "Hamburguesa", PriceGs: 27000},
			{Name: "Empanada", PriceGs: 7000},
			{Name: "Papas fritas", PriceGs: 12000},
			{Name: "Fuera de carta", PriceGs: 1000, Inactive: true},
		},
	})
	require.NoError(t, err)

	f := &fixture{
		db:       conn,
		repo:     NewRepository(conn),
		notifier: newFakeNotifier(),
		metrics:  &fakeMetrics{},
		menu:     menu,
		menus:    menuSvc,
	}
	f.svc = f.serviceWith(t, f.repo)
	return f
}

// serviceWith builds a service over the fixture database that talks to repo,
// which lets tests wrap the repository to interleave or fail operations.
func (f *fixture) serviceWith(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repository: repo,
		Tx:         db.NewFromConn(f.db),
		Menus:      f.menus,
		Notifier:   f.notifier,
		Metrics:    f.metrics,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Clock:      func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return svc
}

type orderOpts struct {
	slug     string
	fee      int64
	strategy enums.SplitStrategy
	minTotal *int64
	minItems *int
	deadline time.Time
}

func (f *fixture) createOrder(t *testing.T, opts orderOpts) *models.GroupOrder {
	t.Helper()
	if opts.slug == "" {
		opts.slug = "martes-chill-cena"
	}
	if opts.deadline.IsZero() {
		opts.deadline = testNow.Add(time.Hour)
	}
	order, err := f.svc.Create(context.Background(), CreateGroupOrderInput{
		MenuID:         f.menu.ID,
		Slug:           opts.slug,
		Deadline:       opts.deadline,
		DeliveryCostGs: opts.fee,
		MinTotalGs:     opts.minTotal,
		MinItems:       opts.minItems,
		SplitStrategy:  opts.strategy,
	})
	require.NoError(t, err)
	return order
}

// addLines inserts one line per menu item index with strictly increasing
// creation times so the positional order is deterministic.
func (f *fixture) addLines(t *testing.T, order *models.GroupOrder, itemIdx ...int) []models.OrderLine {
	t.Helper()
	lines := make([]models.OrderLine, 0, len(itemIdx))
	base := testNow.Add(-time.Hour)
	for i, idx := range itemIdx {
		item := f.menu.Items[idx]
		line := models.OrderLine{
			GroupOrderID: order.ID,
			Name:         fmt.Sprintf("Participante %d", i+1),
			WhatsApp:     fmt.Sprintf("098100000%d", i),
			PayMethod:    enums.PayMethodCash,
			ItemID:       item.ID,
			ItemName:     item.Name,
			UnitPriceGs:  item.PriceGs,
			Qty:          1,
			SubtotalGs:   item.PriceGs,
			TotalGs:      item.PriceGs,
			Status:       enums.LineStatusPending,
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, f.repo.CreateLine(context.Background(), &line))
		lines = append(lines, line)
	}
	return lines
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *models.GroupOrder {
	t.Helper()
	order, err := f.repo.FindByID(context.Background(), id, false)
	require.NoError(t, err)
	return order
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func shareValues(lines []models.OrderLine) (shares, totals []int64) {
	for _, line := range lines {
		shares = append(shares, line.DeliveryShareGs)
		totals = append(totals, line.TotalGs)
	}
	return shares, totals
}

// interleavingRepo runs afterSlugLookup once, right after the first
// FindBySlug returns, to simulate a request landing between two steps.
type interleavingRepo struct {
	Repository
	afterSlugLookup func()
}

func (r *interleavingRepo) FindBySlug(ctx context.Context, slug string) (*models.GroupOrder, error) {
	order, err := r.Repository.FindBySlug(ctx, slug)
	if hook := r.afterSlugLookup; hook != nil {
		r.afterSlugLookup = nil
		hook()
	}
	return order, err
}

// failingLineRepo fails the failOn-th UpdateLineAmounts call made through
// any transaction-scoped copy of it.
type failingLineRepo struct {
	Repository
	failOn int
	calls  *int
}

func newFailingLineRepo(inner Repository, failOn int) *failingLineRepo {
	return &failingLineRepo{Repository: inner, failOn: failOn, calls: new(int)}
}

func (r *failingLineRepo) WithTx(tx *gorm.DB) Repository {
	return &failingLineRepo{Repository: r.Repository.WithTx(tx), failOn: r.failOn, calls: r.calls}
}

func (r *failingLineRepo) UpdateLineAmounts(ctx context.Context, id uuid.UUID, deliveryShareGs, totalGs int64, status enums.LineStatus) error {
	*r.calls++
	if *r.calls == r.failOn {
		return errLineWrite
	}
	return r.Repository.UpdateLineAmounts(ctx, id, deliveryShareGs, totalGs, status)
}

var errLineWrite = errors.New("line write failed")

// racedTransitionRepo lets another writer move the order to winner just
// before the guarded status update runs, so the update matches no row.
type racedTransitionRepo struct {
	Repository
	winner enums.GroupOrderStatus
}

func (r *racedTransitionRepo) WithTx(tx *gorm.DB) Repository {
	return &racedTransitionRepo{Repository: r.Repository.WithTx(tx), winner: r.winner}
}

func (r *racedTransitionRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from enums.GroupOrderStatus, updates map[string]any) (bool, error) {
	if _, err := r.Repository.TransitionStatus(ctx, id, from, map[string]any{"status": r.winner, "closed_at": testNow}); err != nil {
		return false, err
	}
	return r.Repository.TransitionStatus(ctx, id, from, updates)
}
