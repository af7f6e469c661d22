package main

import (
	"os"

	callmemcmder "github.com/papercomputeco/callmem/cmd/callmem"
)

func main() {
	cmd := callmemcmder.NewCallmemCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
