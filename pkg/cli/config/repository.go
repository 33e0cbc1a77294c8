package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/interfaces"
	"github.com/secmon-lab/butler/pkg/repository/firestore"
	"github.com/secmon-lab/butler/pkg/repository/memory"
	"github.com/secmon-lab/butler/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend    string
	projectID  string
	databaseID string
	seedPath   string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (firestore or memory)",
			Value:       "firestore",
			Sources:     cli.EnvVars("BUTLER_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("BUTLER_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("BUTLER_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "seed",
			Usage:       "Seed data TOML file, loaded into the memory backend at startup",
			Sources:     cli.EnvVars("BUTLER_SEED"),
			Destination: &r.seedPath,
		},
	}
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case "firestore":
		if r.projectID == "" {
			return nil, goerr.New("firestore-project-id is required when using firestore backend")
		}
		if r.seedPath != "" {
			return nil, goerr.New("seed data is only supported by the memory backend")
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case "memory":
		repo := memory.New()
		if r.seedPath != "" {
			seed, err := LoadSeed(r.seedPath)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to load seed data")
			}
			if err := seed.Apply(ctx, repo); err != nil {
				return nil, goerr.Wrap(err, "failed to apply seed data")
			}
			logging.Default().Info("Seed data loaded", "path", r.seedPath)
		}
		logging.Default().Info("Using in-memory repository (development mode)")
		return repo, nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}
