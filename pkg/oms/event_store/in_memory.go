package eventstore

import (
	"sync"

	"github.com/joripage/matchbook-dev/pkg/oms/model"
)

type InMemoryEventStore struct {
	mu              sync.RWMutex
	orders          map[string][]*model.OrderEvent
	latestGatewayID map[string]string // OrderID -> current GatewayID
	gatewayChain    map[string]string // GatewayID -> OrigGatewayID
	orderByGateway  map[string]string // GatewayID -> OrderID
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		orders:          make(map[string][]*model.OrderEvent),
		latestGatewayID: make(map[string]string),
		gatewayChain:    make(map[string]string),
		orderByGateway:  make(map[string]string),
	}
}

func (s *InMemoryEventStore) AddEvent(ev *model.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[ev.OrderID] = append(s.orders[ev.OrderID], ev)
	s.trackGatewayChainLocked(ev.OrderID, ev.GatewayID, ev.OrigGatewayID)
}

// TrackGatewayChain links a new client id to the order and to the id it
// replaces.
func (s *InMemoryEventStore) TrackGatewayChain(orderID, gatewayID, origGatewayID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trackGatewayChainLocked(orderID, gatewayID, origGatewayID)
}

func (s *InMemoryEventStore) trackGatewayChainLocked(orderID, gatewayID, origGatewayID string) {
	s.latestGatewayID[orderID] = gatewayID
	s.orderByGateway[gatewayID] = orderID
	if origGatewayID != "" {
		s.gatewayChain[gatewayID] = origGatewayID
	}
}

func (s *InMemoryEventStore) GetLatestGatewayID(orderID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latestGatewayID[orderID]
}

// GetOrigGatewayID returns the immediate predecessor of a client id.
func (s *InMemoryEventStore) GetOrigGatewayID(gatewayID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.gatewayChain[gatewayID]
}

func (s *InMemoryEventStore) GetOrderID(gatewayID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.orderByGateway[gatewayID]
}

// ReconstructChain walks backward through the replace history.
func (s *InMemoryEventStore) ReconstructChain(gatewayID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chain []string
	curr := gatewayID
	for curr != "" {
		chain = append(chain, curr)
		curr = s.gatewayChain[curr]
	}
	return chain
}

func (s *InMemoryEventStore) Events(orderID string) []*model.OrderEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evs := s.orders[orderID]
	out := make([]*model.OrderEvent, len(evs))
	copy(out, evs)
	return out
}

// DeleteChainByOrderID drops a finished order's events and id chain.
func (s *InMemoryEventStore) DeleteChainByOrderID(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	curr := s.latestGatewayID[orderID]
	for curr != "" {
		next := s.gatewayChain[curr]
		delete(s.gatewayChain, curr)
		delete(s.orderByGateway, curr)
		curr = next
	}
	delete(s.latestGatewayID, orderID)
	delete(s.orders, orderID)
}
