package exchange

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/types"
)

func TestSupported(t *testing.T) {
	assert.Equal(t, []types.ExchangeName{
		types.ExchangeBitteam,
		types.ExchangeCoinmetro,
		types.ExchangeFoxbit,
		types.ExchangeHollaex,
		types.ExchangeLatoken,
		types.ExchangeNovadax,
		types.ExchangeProbit,
	}, Supported())
}

func TestNewPublic(t *testing.T) {
	for _, name := range Supported() {
		ex, err := NewPublic(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, ex.Name())

		_, ok := ex.(types.ExchangeTradeService)
		assert.True(t, ok, "%s should implement the trade service", name)
	}

	_, err := NewPublic("nosuchexchange")
	assert.Error(t, err)
}

func TestNewWithEnvVarPrefix(t *testing.T) {
	t.Setenv("NOVA_API_KEY", "key")
	t.Setenv("NOVA_API_SECRET", "secret")

	ex, err := NewWithEnvVarPrefix(types.ExchangeNovadax, "nova")
	require.NoError(t, err)
	assert.Equal(t, types.ExchangeNovadax, ex.Name())

	_, err = NewWithEnvVarPrefix(types.ExchangeProbit, "")
	assert.ErrorContains(t, err, "PROBIT")
}

func TestCoinmetroEnvLoaderAllowsToken(t *testing.T) {
	t.Setenv("COINMETRO_TOKEN", "jwt")

	creds, err := exchangeFactories[types.ExchangeCoinmetro].EnvLoader("COINMETRO")
	require.NoError(t, err)
	assert.Equal(t, "jwt", creds.Token)
	assert.Empty(t, creds.APIKey)
}

type fakeTrader struct {
	calls     []string
	cancelErr error
}

func (f *fakeTrader) FetchBalance(context.Context) (*types.Balances, error) { return nil, nil }

func (f *fakeTrader) CreateOrder(_ context.Context, order types.SubmitOrder) (*types.Order, error) {
	f.calls = append(f.calls, "create "+order.Symbol)
	return &types.Order{ID: "new", Symbol: order.Symbol}, nil
}

func (f *fakeTrader) CancelOrder(_ context.Context, id, symbol string) (*types.Order, error) {
	f.calls = append(f.calls, "cancel "+id)
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return &types.Order{ID: id, Symbol: symbol}, nil
}

func (f *fakeTrader) FetchOpenOrders(context.Context, string, *types.FetchOptions) ([]types.Order, error) {
	return nil, nil
}

type fakeEditor struct {
	fakeTrader
}

func (f *fakeEditor) EditOrder(_ context.Context, id string, _ types.SubmitOrder) (*types.Order, error) {
	f.calls = append(f.calls, "edit "+id)
	return &types.Order{ID: id}, nil
}

func TestEditOrder(t *testing.T) {
	ctx := context.Background()
	order := types.SubmitOrder{Symbol: "BTC/USDT", Type: types.OrderTypeLimit, Side: types.SideBuy, Amount: "1", Price: "100"}

	t.Run("cancel then create", func(t *testing.T) {
		trader := &fakeTrader{}
		o, err := EditOrder(ctx, trader, "old", order)
		require.NoError(t, err)
		assert.Equal(t, "new", o.ID)
		assert.Equal(t, []string{"cancel old", "create BTC/USDT"}, trader.calls)
	})

	t.Run("cancel failure keeps the order", func(t *testing.T) {
		trader := &fakeTrader{cancelErr: exerrors.New(exerrors.OrderNotFound, "test", "gone")}
		_, err := EditOrder(ctx, trader, "old", order)
		assert.True(t, errors.Is(err, exerrors.OrderNotFound))
		assert.Equal(t, []string{"cancel old"}, trader.calls)
	})

	t.Run("native edit", func(t *testing.T) {
		editor := &fakeEditor{}
		_, err := EditOrder(ctx, editor, "old", order)
		require.NoError(t, err)
		assert.Equal(t, []string{"edit old"}, editor.calls)
	})

	t.Run("id required", func(t *testing.T) {
		_, err := EditOrder(ctx, &fakeTrader{}, "", order)
		assert.True(t, errors.Is(err, exerrors.ArgumentsRequired))
	})
}
