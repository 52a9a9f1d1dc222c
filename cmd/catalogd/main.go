// Command catalogd serves the catalog editing API. Configuration comes from
// config.yaml and the environment; see internal/config.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log"

	"github.com/rokartur/xcstrings-editor-sub000/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("catalogd: %v", err)
	}
}
