// Package exerrors defines the error taxonomy shared by all exchange adapters
// and the exact/broad tables used to classify exchange responses.
package exerrors

// Kind is a node of the error hierarchy. Kinds are compared by identity and
// are matched by errors.Is against themselves and any of their ancestors.
type Kind struct {
	name   string
	parent *Kind
}

func newKind(name string, parent *Kind) *Kind {
	return &Kind{name: name, parent: parent}
}

func (k *Kind) Name() string { return k.name }

func (k *Kind) Parent() *Kind { return k.parent }

func (k *Kind) Error() string { return k.name }

// Is reports whether target is k or one of its ancestors.
func (k *Kind) Is(target error) bool {
	t, ok := target.(*Kind)
	if !ok {
		return false
	}

	return k.IsA(t)
}

// IsA walks the parent chain.
func (k *Kind) IsA(t *Kind) bool {
	for c := k; c != nil; c = c.parent {
		if c == t {
			return true
		}
	}
	return false
}

var (
	ExchangeError = newKind("ExchangeError", nil)

	AuthenticationError = newKind("AuthenticationError", ExchangeError)
	PermissionDenied    = newKind("PermissionDenied", AuthenticationError)
	AccountSuspended    = newKind("AccountSuspended", AuthenticationError)

	ArgumentsRequired = newKind("ArgumentsRequired", ExchangeError)
	BadRequest        = newKind("BadRequest", ExchangeError)
	BadSymbol         = newKind("BadSymbol", BadRequest)
	BadResponse       = newKind("BadResponse", ExchangeError)
	InsufficientFunds = newKind("InsufficientFunds", ExchangeError)
	InvalidAddress    = newKind("InvalidAddress", ExchangeError)
	InvalidOrder      = newKind("InvalidOrder", ExchangeError)
	OrderNotFound     = newKind("OrderNotFound", InvalidOrder)
	NotSupported      = newKind("NotSupported", ExchangeError)
	MarketClosed      = newKind("MarketClosed", ExchangeError)

	NetworkError         = newKind("NetworkError", ExchangeError)
	DDoSProtection       = newKind("DDoSProtection", NetworkError)
	RateLimitExceeded    = newKind("RateLimitExceeded", DDoSProtection)
	ExchangeNotAvailable = newKind("ExchangeNotAvailable", NetworkError)
	OnMaintenance        = newKind("OnMaintenance", ExchangeNotAvailable)
	InvalidNonce         = newKind("InvalidNonce", NetworkError)
)

var kinds = []*Kind{
	ExchangeError, AuthenticationError, PermissionDenied, AccountSuspended,
	ArgumentsRequired, BadRequest, BadSymbol, BadResponse, InsufficientFunds,
	InvalidAddress, InvalidOrder, OrderNotFound, NotSupported, MarketClosed,
	NetworkError, DDoSProtection, RateLimitExceeded, ExchangeNotAvailable,
	OnMaintenance, InvalidNonce,
}

// KindByName looks up a kind, used when loading exception tables from configuration.
func KindByName(name string) (*Kind, bool) {
	for _, k := range kinds {
		if k.name == name {
			return k, true
		}
	}
	return nil, false
}
