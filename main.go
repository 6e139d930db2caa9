package main

import (
	"os"

	"github.com/articlegate/articlegate/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
