package exerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindHierarchy(t *testing.T) {
	assert.True(t, errors.Is(InsufficientFunds, ExchangeError))
	assert.True(t, errors.Is(RateLimitExceeded, DDoSProtection))
	assert.True(t, errors.Is(RateLimitExceeded, NetworkError))
	assert.True(t, errors.Is(OrderNotFound, InvalidOrder))
	assert.False(t, errors.Is(InvalidOrder, OrderNotFound))
	assert.False(t, errors.Is(BadSymbol, AuthenticationError))

	err := fmt.Errorf("place order: %w", New(PermissionDenied, "latoken", "forbidden"))
	assert.True(t, errors.Is(err, AuthenticationError))
	assert.Equal(t, PermissionDenied, KindOf(err))
	assert.Nil(t, KindOf(errors.New("plain")))

	k, ok := KindByName("OnMaintenance")
	require.True(t, ok)
	assert.Equal(t, OnMaintenance, k)
}

func TestExceptionsMatch(t *testing.T) {
	table := NewExceptions(
		map[string]*Kind{
			"Insufficient balance": InsufficientFunds,
			"INVALID_ORDER":        InvalidOrder,
		},
		map[string]*Kind{
			"balance":            BadRequest,
			"Not enough balance": InsufficientFunds,
			"Not enough margin":  InsufficientFunds,
			"Too many attempts":  RateLimitExceeded,
			"enough":             ExchangeError,
		},
	)

	t.Run("exact wins over broad", func(t *testing.T) {
		kind, key := table.Match("Insufficient balance")
		assert.Equal(t, InsufficientFunds, kind)
		assert.Equal(t, "Insufficient balance", key)
	})

	t.Run("exact on a later signal still wins over broad on the first", func(t *testing.T) {
		kind, _ := table.Match("wrong balance", "INVALID_ORDER")
		assert.Equal(t, InvalidOrder, kind)
	})

	t.Run("longest broad key wins", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			kind, key := table.Match("Not enough balance on account")
			assert.Equal(t, InsufficientFunds, kind)
			assert.Equal(t, "Not enough balance", key)
		}
	})

	t.Run("no match", func(t *testing.T) {
		kind, _ := table.Match("ok", "")
		assert.Nil(t, kind)
		assert.NoError(t, table.Throw("coinmetro", "{}", "ok"))
	})

	t.Run("throw embeds id and body", func(t *testing.T) {
		body := `{"message":"Too many attempts, slow down"}`
		err := table.Throw("coinmetro", body, "Too many attempts, slow down")
		require.Error(t, err)
		assert.True(t, errors.Is(err, RateLimitExceeded))
		assert.Contains(t, err.Error(), "coinmetro")
		assert.Contains(t, err.Error(), body)

		var exErr *Error
		require.True(t, errors.As(err, &exErr))
		assert.Equal(t, body, exErr.Body)
		assert.Equal(t, "Too many attempts", exErr.Matched)
	})

	var nilTable *Exceptions
	kind, _ := nilTable.Match("anything")
	assert.Nil(t, kind)
}
