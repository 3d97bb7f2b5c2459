package cmdutil

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/c9s/connectors/pkg/cache"
	"github.com/c9s/connectors/pkg/exchange"
	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/testing/httptesting"
	"github.com/c9s/connectors/pkg/transport"
	"github.com/c9s/connectors/pkg/types"
	"github.com/c9s/connectors/pkg/util"
)

// configurable is implemented by every adapter through the base exchange.
type configurable interface {
	Describe() base.Description
	SetHTTPClient(client *http.Client)
	SetThrottle(t base.Throttle)
	SetMarketStore(store base.MarketStore)
}

var memoryStore = cache.NewMemoryStore(0)

// Session is an exchange configured from the command line flags.
type Session struct {
	Exchange types.ExchangeMinimal

	recorder   *httptesting.Recorder
	recordFile string
}

// Close saves the recorded traffic, if any.
func (s *Session) Close() error {
	if s.recorder == nil {
		return nil
	}

	log.Infof("saving %d recorded requests to %s", len(s.recorder.Entries()), s.recordFile)
	return s.recorder.Save(s.recordFile)
}

func ExchangeName() (types.ExchangeName, error) {
	name := viper.GetString("exchange")
	if name == "" {
		return "", errors.New("--exchange is required")
	}
	return types.ValidExchangeName(name)
}

// NewSession creates the exchange selected by --exchange. Public sessions do
// not need credentials.
func NewSession(public bool) (*Session, error) {
	n, err := ExchangeName()
	if err != nil {
		return nil, err
	}

	return NewSessionFor(n, public)
}

func NewSessionFor(n types.ExchangeName, public bool) (*Session, error) {
	var ex types.ExchangeMinimal
	var err error
	if public {
		ex, err = exchange.NewPublic(n)
	} else {
		ex, err = exchange.NewWithEnvVarPrefix(n, viper.GetString("env-prefix"))
	}
	if err != nil {
		return nil, err
	}

	session := &Session{Exchange: ex}
	if err := session.configure(); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Session) configure() error {
	ex, ok := s.Exchange.(configurable)
	if !ok {
		return fmt.Errorf("exchange %T can not be configured", s.Exchange)
	}

	client := &http.Client{Transport: http.DefaultTransport, Timeout: ex.Describe().Timeout}
	if retries := viper.GetUint64("retries"); retries > 0 {
		client = transport.WrapClient(client, retries)
	}

	if filename := viper.GetString("record"); filename != "" {
		s.recorder = httptesting.NewRecorder(client.Transport)
		s.recordFile = filename
		client.Transport = s.recorder
	}
	ex.SetHTTPClient(client)

	if desc := viper.GetString("rate-limit"); desc != "" {
		limiter, err := util.ParseRateLimitSyntax(desc)
		if err != nil {
			return err
		}
		ex.SetThrottle(limiter)
	}

	switch store := viper.GetString("market-cache"); store {
	case "":
	case "memory":
		ex.SetMarketStore(memoryStore)
	case "redis":
		ex.SetMarketStore(cache.NewRedisStore(cache.RedisConfig{
			Host:      viper.GetString("redis-host"),
			Port:      viper.GetString("redis-port"),
			DB:        viper.GetInt("redis-db"),
			Namespace: viper.GetString("redis-namespace"),
		}))
	default:
		return fmt.Errorf("unsupported market cache %q", store)
	}

	return nil
}
