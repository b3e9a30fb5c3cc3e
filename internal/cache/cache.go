package cache

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ddshop/reports-manager/internal/entity"
	"golang.org/x/exp/slices"
)

// Package-level dictionaries loaded once at boot from the database and the
// store configuration. Read-mostly; guarded for the rare admin-driven update.
var (
	mu           sync.RWMutex
	baseCurrency = "USD"
	gatewaysByID map[int]entity.Gateway
	gatewayNames []string
)

// InitConsts seeds the dictionaries. Called once after the store connects.
func InitConsts(baseCur string, gateways []entity.Gateway) error {
	if baseCur == "" {
		return fmt.Errorf("base currency is empty")
	}
	mu.Lock()
	defer mu.Unlock()
	baseCurrency = strings.ToUpper(baseCur)
	gatewaysByID = make(map[int]entity.Gateway, len(gateways))
	gatewayNames = make([]string, 0, len(gateways))
	for _, g := range gateways {
		gatewaysByID[g.ID] = g
		gatewayNames = append(gatewayNames, g.Name)
	}
	return nil
}

// GetBaseCurrency returns the store's default currency code.
func GetBaseCurrency() string {
	mu.RLock()
	defer mu.RUnlock()
	return baseCurrency
}

// GatewayNames returns the names of all known payment gateways. Gateway
// breakdowns zero-fill from this set so absent gateways still report.
func GatewayNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	return slices.Clone(gatewayNames)
}

// GetGatewayByID returns a gateway dictionary row.
func GetGatewayByID(id int) (entity.Gateway, bool) {
	mu.RLock()
	defer mu.RUnlock()
	g, ok := gatewaysByID[id]
	return g, ok
}
