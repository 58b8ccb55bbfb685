package eventstore

import "github.com/joripage/matchbook-dev/pkg/oms/model"

// EventStore records order events and the gateway-id chain built by
// cancel-replace, so any client id can be resolved back to the order.
type EventStore interface {
	AddEvent(ev *model.OrderEvent)
	TrackGatewayChain(orderID, gatewayID, origGatewayID string)
	GetLatestGatewayID(orderID string) string
	GetOrigGatewayID(gatewayID string) string
	GetOrderID(gatewayID string) string
	ReconstructChain(gatewayID string) []string
	Events(orderID string) []*model.OrderEvent
	DeleteChainByOrderID(orderID string)
}
