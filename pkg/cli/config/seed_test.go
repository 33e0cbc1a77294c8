package config_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/butler/pkg/cli/config"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/repository/memory"
)

func TestLoadSeed(t *testing.T) {
	t.Run("loads and applies a full seed file", func(t *testing.T) {
		path := writeTempFile(t, "seed.toml", `
[[knowledge]]
user_id = "u1"
title = "Expense policy"
content = "Expenses above 500 need approval"
importance = 0.8

[[memory]]
user_id = "u1"
content = "Prefers morning meetings"

[[file]]
user_id = "u1"
name = "report.pdf"
summary = "Quarterly report"

[[email]]
user_id = "u1"
from = "alice@example.com"
subject = "Invoice attached"

[[event]]
user_id = "u1"
title = "Standup"
starts_at = "2026-09-01T09:00:00Z"
ends_at = "2026-09-01T09:15:00Z"

[[project]]
user_id = "u1"
name = "Migration"
status = "active"

[[chunk]]
user_id = "u1"
content = "Meeting notes from the kickoff"
type = "conversation"
`)

		seed, err := config.LoadSeed(path)
		gt.NoError(t, err).Required()

		ctx := context.Background()
		repo := memory.New()
		gt.NoError(t, seed.Apply(ctx, repo)).Required()

		knowledge, err := repo.Knowledge().Search(ctx, "u1", nil, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, knowledge).Length(1).Required()
		gt.Value(t, knowledge[0].Title).Equal("Expense policy")

		notes, err := repo.Memory().Search(ctx, "u1", nil, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, notes).Length(1)

		files, err := repo.File().Search(ctx, "u1", nil, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, files).Length(1)

		emails, err := repo.Email().Search(ctx, "u1", nil, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, emails).Length(1)

		projects, err := repo.Project().List(ctx, "u1")
		gt.NoError(t, err).Required()
		gt.Array(t, projects).Length(1)

		chunks, err := repo.Chunk().ListByUser(ctx, "u1")
		gt.NoError(t, err).Required()
		gt.Array(t, chunks).Length(1)
	})

	t.Run("rejects an entry without user_id", func(t *testing.T) {
		path := writeTempFile(t, "seed.toml", `
[[knowledge]]
title = "Orphan"
content = "No owner"
`)

		_, err := config.LoadSeed(path)
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, config.ErrMissingUserID)).True()
	})

	t.Run("rejects an unknown chunk type", func(t *testing.T) {
		path := writeTempFile(t, "seed.toml", `
[[chunk]]
user_id = "u1"
content = "text"
type = "hologram"
`)

		_, err := config.LoadSeed(path)
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects a chunk embedding with the wrong dimension", func(t *testing.T) {
		path := writeTempFile(t, "seed.toml", `
[[chunk]]
user_id = "u1"
content = "text"
type = "document"
embedding = [0.1, 0.2, 0.3]
`)

		_, err := config.LoadSeed(path)
		gt.Value(t, err).NotNil()
	})

	t.Run("accepts a chunk embedding with the full dimension", func(t *testing.T) {
		vals := make([]string, model.EmbeddingDimension)
		for i := range vals {
			vals[i] = "0.1"
		}
		path := writeTempFile(t, "seed.toml", fmt.Sprintf(`
[[chunk]]
user_id = "u1"
content = "text"
type = "document"
embedding = [%s]
`, strings.Join(vals, ", ")))

		seed, err := config.LoadSeed(path)
		gt.NoError(t, err).Required()
		gt.Array(t, seed.Chunks).Length(1)
	})

	t.Run("rejects an event with a malformed start time", func(t *testing.T) {
		path := writeTempFile(t, "seed.toml", `
[[event]]
user_id = "u1"
title = "Standup"
starts_at = "tomorrow"
`)

		_, err := config.LoadSeed(path)
		gt.Value(t, err).NotNil()
	})
}
