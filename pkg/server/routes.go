package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/c9s/connectors/pkg/exchange"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/types"
)

func (s *Server) routes(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/exchanges", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"exchanges": exchange.Supported()})
	})

	ex := r.Group("/:exchange")
	ex.GET("/markets", s.withExchange(func(c *gin.Context, ex types.Exchange) {
		markets, err := ex.LoadMarkets(c.Request.Context(), c.Query("reload") == "true")
		if err != nil {
			abortWithError(c, err)
			return
		}

		symbols := markets.Symbols()
		list := make([]types.Market, 0, len(symbols))
		for _, symbol := range symbols {
			list = append(list, markets[symbol])
		}
		c.JSON(http.StatusOK, gin.H{"markets": list})
	}))

	ex.GET("/currencies", s.withExchange(func(c *gin.Context, ex types.Exchange) {
		service, ok := ex.(types.ExchangeCurrencyService)
		if !ok {
			abortWithError(c, notSupported(ex, "fetchCurrencies"))
			return
		}

		currencies, err := service.FetchCurrencies(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"currencies": currencies})
	}))

	ex.GET("/ticker", s.withExchange(func(c *gin.Context, ex types.Exchange) {
		symbol, ok := requireQuery(c, ex, "symbol")
		if !ok {
			return
		}

		ticker, err := ex.FetchTicker(c.Request.Context(), symbol)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ticker": ticker})
	}))

	ex.GET("/tickers", s.withExchange(func(c *gin.Context, ex types.Exchange) {
		service, ok := ex.(types.ExchangeTickersService)
		if !ok {
			abortWithError(c, notSupported(ex, "fetchTickers"))
			return
		}

		var symbols []string
		if q := c.Query("symbols"); q != "" {
			symbols = strings.Split(q, ",")
		}

		tickers, err := service.FetchTickers(c.Request.Context(), symbols...)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tickers": tickers})
	}))

	ex.GET("/orderbook", s.withExchange(func(c *gin.Context, ex types.Exchange) {
		symbol, ok := requireQuery(c, ex, "symbol")
		if !ok {
			return
		}

		options, err := fetchOptions(c)
		if err != nil {
			abortWithError(c, err)
			return
		}

		book, err := ex.FetchOrderBook(c.Request.Context(), symbol, options.Limit)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orderbook": book})
	}))

	ex.GET("/trades", s.withExchange(func(c *gin.Context, ex types.Exchange) {
		symbol, ok := requireQuery(c, ex, "symbol")
		if !ok {
			return
		}

		options, err := fetchOptions(c)
		if err != nil {
			abortWithError(c, err)
			return
		}

		trades, err := ex.FetchTrades(c.Request.Context(), symbol, options)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"trades": trades})
	}))

	ex.GET("/ohlcv", s.withExchange(func(c *gin.Context, ex types.Exchange) {
		service, ok := ex.(types.ExchangeOHLCVService)
		if !ok {
			abortWithError(c, notSupported(ex, "fetchOHLCV"))
			return
		}

		symbol, ok := requireQuery(c, ex, "symbol")
		if !ok {
			return
		}

		options, err := fetchOptions(c)
		if err != nil {
			abortWithError(c, err)
			return
		}

		candles, err := service.FetchOHLCV(c.Request.Context(), symbol, c.DefaultQuery("timeframe", "1m"), options)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ohlcv": candles})
	}))

	ex.GET("/timeframes", s.withExchange(func(c *gin.Context, ex types.Exchange) {
		described, ok := ex.(interface{ Timeframes() []string })
		if !ok {
			abortWithError(c, notSupported(ex, "timeframes"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"timeframes": described.Timeframes()})
	}))
}

func (s *Server) withExchange(handler func(c *gin.Context, ex types.Exchange)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ex, err := s.exchange(c.Param("exchange"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		handler(c, ex)
	}
}

func requireQuery(c *gin.Context, ex types.Exchange, key string) (string, bool) {
	value := c.Query(key)
	if value == "" {
		abortWithError(c, exerrors.New(exerrors.ArgumentsRequired, ex.Name().String(), "%s is required", key))
		return "", false
	}
	return value, true
}

func notSupported(ex types.Exchange, method string) error {
	return exerrors.New(exerrors.NotSupported, ex.Name().String(), "%s() is not supported yet", method)
}

// fetchOptions reads since and until (unix milliseconds or RFC3339) and limit.
func fetchOptions(c *gin.Context) (*types.FetchOptions, error) {
	options := &types.FetchOptions{}

	for key, dst := range map[string]**time.Time{"since": &options.Since, "until": &options.Until} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}

		t, err := parseTime(raw)
		if err != nil {
			return nil, exerrors.New(exerrors.BadRequest, "gateway", "invalid %s %q", key, raw)
		}
		*dst = &t
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, exerrors.New(exerrors.BadRequest, "gateway", "invalid limit %q", raw)
		}
		options.Limit = limit
	}

	return options, nil
}

func parseTime(raw string) (time.Time, error) {
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	return time.Parse(time.RFC3339, raw)
}
