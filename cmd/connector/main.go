package main

import (
	"github.com/c9s/connectors/pkg/cmd"
)

func main() {
	cmd.Execute()
}
