package exchange

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/c9s/connectors/pkg/exchange/bitteam"
	"github.com/c9s/connectors/pkg/exchange/coinmetro"
	"github.com/c9s/connectors/pkg/exchange/foxbit"
	"github.com/c9s/connectors/pkg/exchange/hollaex"
	"github.com/c9s/connectors/pkg/exchange/latoken"
	"github.com/c9s/connectors/pkg/exchange/novadax"
	"github.com/c9s/connectors/pkg/exchange/probit"
	"github.com/c9s/connectors/pkg/types"
)

// environment variable suffixes read by DefaultEnvVarLoader
const (
	EnvKeyAPIKey    = "API_KEY"
	EnvKeyAPISecret = "API_SECRET"
	EnvKeyUID       = "UID"
	EnvKeyLogin     = "LOGIN"
	EnvKeyPassword  = "PASSWORD"
	EnvKeyToken     = "TOKEN"
	EnvKeyTwoFA     = "TWOFA"
)

// ExchangeEnvLoader loads credentials from environment variables named
// <varPrefix>_API_KEY, <varPrefix>_API_SECRET and so on.
type ExchangeEnvLoader func(varPrefix string) (types.Credentials, error)

// ExchangeConstructor creates an exchange instance with the given credentials.
type ExchangeConstructor func(types.Credentials) types.ExchangeMinimal

type ExchangeFactory struct {
	EnvLoader   ExchangeEnvLoader
	Constructor ExchangeConstructor
}

var exchangeFactories = map[types.ExchangeName]ExchangeFactory{
	types.ExchangeCoinmetro: {
		// coinmetro also accepts a token or a login session
		EnvLoader: optionalEnvVarLoader,
		Constructor: func(creds types.Credentials) types.ExchangeMinimal {
			return coinmetro.New(creds)
		},
	},
	types.ExchangeLatoken: {
		EnvLoader: DefaultEnvVarLoader,
		Constructor: func(creds types.Credentials) types.ExchangeMinimal {
			return latoken.New(creds)
		},
	},
	types.ExchangeFoxbit: {
		EnvLoader: DefaultEnvVarLoader,
		Constructor: func(creds types.Credentials) types.ExchangeMinimal {
			return foxbit.New(creds)
		},
	},
	types.ExchangeBitteam: {
		EnvLoader: DefaultEnvVarLoader,
		Constructor: func(creds types.Credentials) types.ExchangeMinimal {
			return bitteam.New(creds)
		},
	},
	types.ExchangeProbit: {
		EnvLoader: DefaultEnvVarLoader,
		Constructor: func(creds types.Credentials) types.ExchangeMinimal {
			return probit.New(creds)
		},
	},
	types.ExchangeNovadax: {
		EnvLoader: DefaultEnvVarLoader,
		Constructor: func(creds types.Credentials) types.ExchangeMinimal {
			return novadax.New(creds)
		},
	},
	types.ExchangeHollaex: {
		EnvLoader: DefaultEnvVarLoader,
		Constructor: func(creds types.Credentials) types.ExchangeMinimal {
			return hollaex.New(creds)
		},
	},
}

func RegisterExchange(name types.ExchangeName, factory ExchangeFactory) {
	exchangeFactories[name] = factory

	types.SupportedExchanges[name] = struct{}{}
}

// Supported lists the registered exchange names in order.
func Supported() []types.ExchangeName {
	names := make([]types.ExchangeName, 0, len(exchangeFactories))
	for name := range exchangeFactories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// NewPublic creates an exchange without credentials, usable for market data only.
func NewPublic(exchangeName types.ExchangeName) (types.Exchange, error) {
	exMinimal, err := New(exchangeName, types.Credentials{})
	if err != nil {
		return nil, err
	}

	if ex, ok := exMinimal.(types.Exchange); ok {
		return ex, nil
	}

	return nil, fmt.Errorf("exchange %T does not implement types.Exchange", exMinimal)
}

func New(n types.ExchangeName, creds types.Credentials) (types.ExchangeMinimal, error) {
	factory, existing := exchangeFactories[n]
	if !existing {
		return nil, fmt.Errorf("unsupported exchange: %v", n)
	}

	if factory.Constructor == nil {
		return nil, fmt.Errorf("exchange factory %v does not support constructor", n)
	}

	return factory.Constructor(creds), nil
}

// NewWithEnvVarPrefix allocate and initialize the exchange instance with the given environment variable prefix
// When the varPrefix is a empty string, the default exchange name will be used as the prefix
func NewWithEnvVarPrefix(n types.ExchangeName, varPrefix string) (types.ExchangeMinimal, error) {
	if len(varPrefix) == 0 {
		varPrefix = n.String()
	}

	varPrefix = strings.ToUpper(varPrefix)

	factory, existing := exchangeFactories[n]
	if !existing {
		return nil, fmt.Errorf("unsupported exchange: %v", n)
	}

	if factory.EnvLoader == nil {
		return nil, fmt.Errorf("exchange factory %v does not support environment variable loader", n)
	}

	creds, err := factory.EnvLoader(varPrefix)
	if err != nil {
		return nil, err
	}

	return New(n, creds)
}

func loadCredentials(varPrefix string) types.Credentials {
	env := func(key string) string {
		return os.Getenv(varPrefix + "_" + key)
	}

	return types.Credentials{
		APIKey:   env(EnvKeyAPIKey),
		Secret:   env(EnvKeyAPISecret),
		UID:      env(EnvKeyUID),
		Login:    env(EnvKeyLogin),
		Password: env(EnvKeyPassword),
		Token:    env(EnvKeyToken),
		TwoFA:    env(EnvKeyTwoFA),
	}
}

func DefaultEnvVarLoader(varPrefix string) (types.Credentials, error) {
	creds := loadCredentials(varPrefix)
	if len(creds.APIKey) == 0 || len(creds.Secret) == 0 {
		return creds, fmt.Errorf("can not initialize exchange due to empty key or secret, env var prefix: %s", varPrefix)
	}
	return creds, nil
}

func optionalEnvVarLoader(varPrefix string) (types.Credentials, error) {
	return loadCredentials(varPrefix), nil
}
