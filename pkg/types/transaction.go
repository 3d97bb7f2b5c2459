package types

import (
	"encoding/json"

	"github.com/volatiletech/null"
)

type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionOK       TransactionStatus = "ok"
	TransactionFailed   TransactionStatus = "failed"
	TransactionCanceled TransactionStatus = "canceled"
)

type Transaction struct {
	ID          string            `json:"id"`
	TxID        string            `json:"txid"`
	Timestamp   null.Int64        `json:"timestamp"`
	Datetime    string            `json:"datetime"`
	Network     string            `json:"network"`
	Address     string            `json:"address"`
	AddressFrom string            `json:"addressFrom"`
	AddressTo   string            `json:"addressTo"`
	Tag         string            `json:"tag"`
	TagFrom     string            `json:"tagFrom"`
	TagTo       string            `json:"tagTo"`
	Type        TransactionType   `json:"type"`
	Amount      Number            `json:"amount"`
	Currency    string            `json:"currency"`
	Status      TransactionStatus `json:"status"`
	Updated     null.Int64        `json:"updated"`
	Comment     string            `json:"comment"`
	Internal    null.Bool         `json:"internal"`
	Fee         *Fee              `json:"fee"`
	Info        json.RawMessage   `json:"info"`
}

type LedgerDirection string

const (
	DirectionIn  LedgerDirection = "in"
	DirectionOut LedgerDirection = "out"
)

type LedgerEntry struct {
	ID               string          `json:"id"`
	Timestamp        null.Int64      `json:"timestamp"`
	Datetime         string          `json:"datetime"`
	Direction        LedgerDirection `json:"direction"`
	Account          string          `json:"account"`
	ReferenceID      string          `json:"referenceId"`
	ReferenceAccount string          `json:"referenceAccount"`
	Type             string          `json:"type"`
	Currency         string          `json:"currency"`
	Amount           Number          `json:"amount"`
	Before           Number          `json:"before"`
	After            Number          `json:"after"`
	Status           string          `json:"status"`
	Fee              *Fee            `json:"fee"`
	Info             json.RawMessage `json:"info"`
}

type Transfer struct {
	ID          string          `json:"id"`
	Timestamp   null.Int64      `json:"timestamp"`
	Datetime    string          `json:"datetime"`
	Currency    string          `json:"currency"`
	Amount      Number          `json:"amount"`
	FromAccount string          `json:"fromAccount"`
	ToAccount   string          `json:"toAccount"`
	Status      string          `json:"status"`
	Info        json.RawMessage `json:"info"`
}

type DepositAddress struct {
	Currency string          `json:"currency"`
	Network  string          `json:"network"`
	Address  string          `json:"address"`
	Tag      string          `json:"tag"`
	Info     json.RawMessage `json:"info"`
}

// SignedAmount splits a signed ledger amount into a direction and its absolute value.
func SignedAmount(amount Number) (LedgerDirection, Number) {
	if !amount.IsSet() {
		return "", Undefined
	}
	if amount.IsNegative() {
		return DirectionOut, amount.Abs()
	}
	return DirectionIn, amount
}
