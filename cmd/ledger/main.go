package main

import (
	"os"

	"github.com/MrJamesThe3rd/dailybalance/cmd/ledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
