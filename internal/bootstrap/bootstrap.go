// Package bootstrap assembles the service graph shared by the binaries.
package bootstrap

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sumopedidos/sumo-backend/internal/grouporders"
	"github.com/sumopedidos/sumo-backend/internal/menus"
	"github.com/sumopedidos/sumo-backend/internal/notifications"
	"github.com/sumopedidos/sumo-backend/pkg/config"
	"github.com/sumopedidos/sumo-backend/pkg/db"
	"github.com/sumopedidos/sumo-backend/pkg/logger"
	"github.com/sumopedidos/sumo-backend/pkg/metrics"
	"github.com/sumopedidos/sumo-backend/pkg/whatsapp"
)

// Services is the wired domain layer.
type Services struct {
	Menus            menus.Service
	GroupOrders      grouporders.Service
	Dispatcher       *notifications.Dispatcher
	NotificationLogs notifications.Repository
}

// Params configures Build. Sender overrides the configured WhatsApp provider
// when set; Registerer may be nil to skip metric registration.
type Params struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         *db.Client
	Registerer prometheus.Registerer
	Sender     whatsapp.Sender
}

// Build wires repositories, the notification dispatcher and the services.
func Build(params Params) (*Services, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg := params.Config

	sender := params.Sender
	if sender == nil {
		s, err := whatsapp.NewFromConfig(cfg.WhatsApp)
		if err != nil {
			return nil, fmt.Errorf("whatsapp sender: %w", err)
		}
		sender = s
	}

	orderMetrics := metrics.NewGroupOrderMetrics(params.Registerer)

	menuService, err := menus.NewService(menus.NewRepository(params.DB.DB()))
	if err != nil {
		return nil, err
	}

	logs := notifications.NewRepository(params.DB.DB())
	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherParams{
		Config:      cfg.Notify,
		CountryCode: cfg.WhatsApp.DefaultCountryCode,
		Sender:      sender,
		Logs:        logs,
		Metrics:     orderMetrics,
		Logger:      params.Logger,
	})
	if err != nil {
		return nil, err
	}

	orderService, err := grouporders.NewService(grouporders.ServiceParams{
		Repository: grouporders.NewRepository(params.DB.DB()),
		Tx:         params.DB,
		Menus:      menuService,
		Notifier:   dispatcher,
		Metrics:    orderMetrics,
		Logger:     params.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Services{
		Menus:            menuService,
		GroupOrders:      orderService,
		Dispatcher:       dispatcher,
		NotificationLogs: logs,
	}, nil
}
