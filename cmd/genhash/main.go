// genhash prints a salt/hash pair for a password, for hand-edited stores.
// Usage: go run ./cmd/genhash -password secret
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/FedyaB/restapi-server-spbstu/internal/service"
	"github.com/FedyaB/restapi-server-spbstu/internal/validation"

	"github.com/rs/zerolog/log"
)

func main() {
	password := flag.String("password", "", "plaintext password")
	flag.Parse()

	if !validation.ValidPassword(*password) {
		log.Fatal().Msg("password must be 4 to 20 characters")
	}
	creds, err := service.NewCredentials(*password)
	if err != nil {
		log.Fatal().Err(err).Msg("hash failed")
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(creds); err != nil {
		log.Fatal().Err(err).Msg("encode failed")
	}
}
