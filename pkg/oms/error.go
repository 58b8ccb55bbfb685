package oms

import "errors"

var (
	errDuplicateOrder     = errors.New("duplicate order")
	errOrderIDNotFound    = errors.New("orderID not found")
	errGatewayIDNotFound  = errors.New("gatewayID not found")
	errInvalidOrderStatus = errors.New("invalid order status")
	errOrderRejected      = errors.New("order rejected")
	errInvalidPrice       = errors.New("price not representable at configured scale")
	errInvalidQuantity    = errors.New("quantity must be a positive integer")
)
