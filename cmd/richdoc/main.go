package main

import (
	"fmt"
	"os"

	"richdoc/internal/app"
)

func main() {
	application := app.New()
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "richdoc failed: %v\n", err)
		os.Exit(1)
	}
}
