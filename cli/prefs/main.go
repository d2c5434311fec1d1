package main

import (
	"os"

	prefscmder "github.com/papercomputeco/prefs/cmd/prefs"
)

func main() {
	cmd := prefscmder.NewPrefsCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
