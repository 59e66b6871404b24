// seed fills the configured employee store with demo employees.
// Usage: go run ./cmd/seed -count 50 -password demo1234
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/FedyaB/restapi-server-spbstu/internal/config"
	"github.com/FedyaB/restapi-server-spbstu/internal/dto"
	"github.com/FedyaB/restapi-server-spbstu/internal/model"
	"github.com/FedyaB/restapi-server-spbstu/internal/repository"
	"github.com/FedyaB/restapi-server-spbstu/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	names    = []string{"Anna", "Boris", "Daria", "Fedor", "Irina", "Maxim", "Olga", "Pavel", "Sofia", "Ted"}
	surnames = []string{"Ivanov", "Petrova", "Smith", "Orlov", "Kuznetsova", "Brown", "Volkov", "Sokolova"}
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	count := flag.Int("count", 30, "number of employees to create")
	password := flag.String("password", "demo1234", "password shared by every seeded employee")
	flag.Parse()

	cfg, err := config.Read()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	repo, closeStore, err := repository.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open employee store")
	}

	created, seedErr := seed(context.Background(), repo, cfg, *count, *password)
	if err := closeStore(); err != nil {
		log.Error().Err(err).Msg("failed to close employee store")
	}
	if seedErr != nil {
		log.Fatal().Err(seedErr).Int("created", created).Msg("seed failed")
	}
	log.Info().Int("count", created).Str("driver", cfg.StoreDriver).Msg("employees seeded")
}

// seed creates count random employees through the service and reports how
// many were stored before the first failure.
func seed(ctx context.Context, repo repository.EmployeeRepository, cfg *config.Config, count int, password string) (int, error) {
	svc := service.NewEmployeeService(repo, service.NewAuthService(repo, cfg))
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < count; i++ {
		salary := int64(rng.Intn(300)) * 1000
		req := dto.CreateEmployeeRequest{
			EmployeeData: dto.EmployeeData{
				Name:     names[rng.Intn(len(names))],
				Surname:  surnames[rng.Intn(len(surnames))],
				Position: model.Positions[rng.Intn(len(model.Positions))],
				Birthday: fmt.Sprintf("%02d/%02d/%d", 1+rng.Intn(28), 1+rng.Intn(12), 1960+rng.Intn(45)),
				Salary:   &salary,
			},
			Password: password,
		}
		ref, err := svc.Create(ctx, req)
		if err != nil {
			return i, err
		}
		log.Debug().Int64("employee_id", ref.ID).Msg("seeded")
	}
	return count, nil
}
