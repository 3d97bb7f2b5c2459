package style

import (
	"github.com/fatih/color"

	"github.com/c9s/connectors/pkg/types"
)

var (
	bidColor = color.New(color.FgGreen)
	askColor = color.New(color.FgRed)
)

// SideString colors buy green and sell red.
func SideString(side types.OrderSide) string {
	switch side {
	case types.SideBuy:
		return bidColor.Sprint(string(side))
	case types.SideSell:
		return askColor.Sprint(string(side))
	}
	return string(side)
}

func Bid(s string) string { return bidColor.Sprint(s) }

func Ask(s string) string { return askColor.Sprint(s) }

// ChangeString prefixes positive changes with a plus sign and colors them
// like the side that caused them.
func ChangeString(change types.Number) string {
	if !change.IsSet() {
		return ""
	}

	switch sign := change.Cmp(types.Number("0")); {
	case sign > 0:
		return bidColor.Sprint("+" + change.String())
	case sign < 0:
		return askColor.Sprint(change.String())
	}
	return change.String()
}
