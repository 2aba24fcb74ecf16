package handlers

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/doshakada/ordering-api/internal/config"
	"github.com/doshakada/ordering-api/internal/repository"
	"github.com/doshakada/ordering-api/internal/service"
	"github.com/stretchr/testify/require"
)

const testMenuJSON = `[
	{"id": 1, "name": "Masala Dosa", "price": 60, "category": "Dosa"},
	{"id": 2, "name": "Ghee Roast (Half)", "price": 50, "category": "Dosa"},
	{"id": 3, "name": "Ghee Roast (Full)", "price": 90, "category": "Dosa"},
	{"id": 4, "name": "Tea", "price": 15, "category": "Drinks"}
]`

type testEnv struct {
	log    *slog.Logger
	menu   *service.MenuService
	orders *service.OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	menuPath := filepath.Join(dir, "menu.json")
	require.NoError(t, os.WriteFile(menuPath, []byte(testMenuJSON), 0o644))
	menuRepo := repository.NewFileMenuRepository(menuPath)

	orderRepo, err := repository.NewFileOrderRepository(filepath.Join(dir, "orders.json"))
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		log:    log,
		menu:   service.NewMenuService(menuRepo),
		orders: service.NewOrderService(menuRepo, orderRepo, nil, config.PaymentConfig{UPIVPA: "shop@okaxis", UPIPayeeName: "Dosha Kada"}, log),
	}
}
