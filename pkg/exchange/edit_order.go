package exchange

import (
	"context"
	"fmt"

	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/types"
)

// EditOrder replaces an open order. Exchanges with a native edit endpoint
// are called directly; for the others the order is canceled and the
// replacement placed. The replacement is never placed when the cancel fails.
func EditOrder(ctx context.Context, ex types.ExchangeTradeService, id string, order types.SubmitOrder) (*types.Order, error) {
	if editor, ok := ex.(types.ExchangeEditOrderService); ok {
		return editor.EditOrder(ctx, id, order)
	}

	if id == "" {
		return nil, exerrors.New(exerrors.ArgumentsRequired, exchangeID(ex), "editOrder() requires an order id")
	}

	if _, err := ex.CancelOrder(ctx, id, order.Symbol); err != nil {
		return nil, fmt.Errorf("edit order %s: cancel: %w", id, err)
	}

	created, err := ex.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("edit order %s: order canceled, replacement failed: %w", id, err)
	}
	return created, nil
}

func exchangeID(ex interface{}) string {
	if named, ok := ex.(interface{ Name() types.ExchangeName }); ok {
		return named.Name().String()
	}
	return ""
}
