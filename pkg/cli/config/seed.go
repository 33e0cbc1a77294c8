package config

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/butler/pkg/domain/interfaces"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/domain/types"
)

// Seed is development fixture data for the in-memory repository. Each entry
// becomes one record; IDs are generated on load so seed files stay small.
type Seed struct {
	Knowledge []SeedKnowledge `toml:"knowledge"`
	Memories  []SeedMemory    `toml:"memory"`
	Files     []SeedFile      `toml:"file"`
	Emails    []SeedEmail     `toml:"email"`
	Events    []SeedEvent     `toml:"event"`
	Projects  []SeedProject   `toml:"project"`
	Chunks    []SeedChunk     `toml:"chunk"`
}

// SeedKnowledge is one knowledge base entry in a seed file
type SeedKnowledge struct {
	UserID     string   `toml:"user_id"`
	Title      string   `toml:"title"`
	Content    string   `toml:"content"`
	Category   string   `toml:"category"`
	Tags       []string `toml:"tags"`
	Importance float64  `toml:"importance"`
}

// Validate checks if the SeedKnowledge is valid
func (s *SeedKnowledge) Validate() error {
	if s.UserID == "" {
		return goerr.Wrap(ErrMissingUserID, "knowledge entry")
	}
	if s.Content == "" {
		return goerr.Wrap(ErrMissingContent, "knowledge entry", goerr.V("title", s.Title))
	}
	if s.Importance < 0 || s.Importance > 1 {
		return goerr.New("knowledge importance must be between 0 and 1", goerr.V("importance", s.Importance))
	}
	return nil
}

// SeedMemory is one memory note entry in a seed file
type SeedMemory struct {
	UserID         string  `toml:"user_id"`
	ConversationID string  `toml:"conversation_id"`
	Content        string  `toml:"content"`
	Importance     float64 `toml:"importance"`
}

// Validate checks if the SeedMemory is valid
func (s *SeedMemory) Validate() error {
	if s.UserID == "" {
		return goerr.Wrap(ErrMissingUserID, "memory entry")
	}
	if s.Content == "" {
		return goerr.Wrap(ErrMissingContent, "memory entry")
	}
	return nil
}

// SeedFile is one file metadata entry in a seed file
type SeedFile struct {
	UserID   string `toml:"user_id"`
	Name     string `toml:"name"`
	MimeType string `toml:"mime_type"`
	Summary  string `toml:"summary"`
	Size     int64  `toml:"size"`
}

// Validate checks if the SeedFile is valid
func (s *SeedFile) Validate() error {
	if s.UserID == "" {
		return goerr.Wrap(ErrMissingUserID, "file entry")
	}
	if s.Name == "" {
		return goerr.New("file name is required")
	}
	return nil
}

// SeedEmail is one email metadata entry in a seed file
type SeedEmail struct {
	UserID  string   `toml:"user_id"`
	From    string   `toml:"from"`
	To      []string `toml:"to"`
	Subject string   `toml:"subject"`
	Snippet string   `toml:"snippet"`
}

// Validate checks if the SeedEmail is valid
func (s *SeedEmail) Validate() error {
	if s.UserID == "" {
		return goerr.Wrap(ErrMissingUserID, "email entry")
	}
	if s.Subject == "" && s.Snippet == "" {
		return goerr.New("email entry needs a subject or snippet")
	}
	return nil
}

// SeedEvent is one calendar event entry in a seed file
type SeedEvent struct {
	UserID      string   `toml:"user_id"`
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Location    string   `toml:"location"`
	Attendees   []string `toml:"attendees"`
	StartsAt    string   `toml:"starts_at"` // RFC 3339
	EndsAt      string   `toml:"ends_at"`   // RFC 3339
}

// Validate checks if the SeedEvent is valid
func (s *SeedEvent) Validate() error {
	if s.UserID == "" {
		return goerr.Wrap(ErrMissingUserID, "event entry")
	}
	if s.Title == "" {
		return goerr.New("event title is required")
	}
	if _, err := time.Parse(time.RFC3339, s.StartsAt); err != nil {
		return goerr.Wrap(err, "invalid event start time", goerr.V("starts_at", s.StartsAt))
	}
	if s.EndsAt != "" {
		if _, err := time.Parse(time.RFC3339, s.EndsAt); err != nil {
			return goerr.Wrap(err, "invalid event end time", goerr.V("ends_at", s.EndsAt))
		}
	}
	return nil
}

// SeedProject is one project entry in a seed file
type SeedProject struct {
	UserID      string   `toml:"user_id"`
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Status      string   `toml:"status"`
	Tags        []string `toml:"tags"`
}

// Validate checks if the SeedProject is valid
func (s *SeedProject) Validate() error {
	if s.UserID == "" {
		return goerr.Wrap(ErrMissingUserID, "project entry")
	}
	if s.Name == "" {
		return goerr.New("project name is required")
	}
	return nil
}

// SeedChunk is one vector store chunk entry in a seed file. Embeddings are
// optional; keyword fallback still finds embedding-less chunks.
type SeedChunk struct {
	UserID     string    `toml:"user_id"`
	Content    string    `toml:"content"`
	Source     string    `toml:"source"`
	Type       string    `toml:"type"`
	Title      string    `toml:"title"`
	Tags       []string  `toml:"tags"`
	Importance float64   `toml:"importance"`
	Embedding  []float64 `toml:"embedding"`
}

// Validate checks if the SeedChunk is valid
func (s *SeedChunk) Validate() error {
	if s.UserID == "" {
		return goerr.Wrap(ErrMissingUserID, "chunk entry")
	}
	if s.Content == "" {
		return goerr.Wrap(ErrMissingContent, "chunk entry")
	}
	if err := types.ChunkType(s.Type).Validate(); err != nil {
		return goerr.Wrap(err, "invalid chunk type")
	}
	if len(s.Embedding) > 0 && len(s.Embedding) != model.EmbeddingDimension {
		return goerr.New("chunk embedding has wrong dimension",
			goerr.V("got", len(s.Embedding)),
			goerr.V("want", model.EmbeddingDimension))
	}
	return nil
}

// Validate checks if the Seed is valid
func (s *Seed) Validate() error {
	for i := range s.Knowledge {
		if err := s.Knowledge[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid knowledge seed", goerr.V("index", i))
		}
	}
	for i := range s.Memories {
		if err := s.Memories[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid memory seed", goerr.V("index", i))
		}
	}
	for i := range s.Files {
		if err := s.Files[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid file seed", goerr.V("index", i))
		}
	}
	for i := range s.Emails {
		if err := s.Emails[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid email seed", goerr.V("index", i))
		}
	}
	for i := range s.Events {
		if err := s.Events[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid event seed", goerr.V("index", i))
		}
	}
	for i := range s.Projects {
		if err := s.Projects[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid project seed", goerr.V("index", i))
		}
	}
	for i := range s.Chunks {
		if err := s.Chunks[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid chunk seed", goerr.V("index", i))
		}
	}
	return nil
}

// LoadSeed loads seed data from a TOML file
func LoadSeed(path string) (*Seed, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V("path", path))
	}

	var seed Seed
	if err := toml.Unmarshal(data, &seed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML seed file", goerr.V("path", path))
	}

	if err := seed.Validate(); err != nil {
		return nil, goerr.Wrap(err, "seed validation failed", goerr.V("path", path))
	}

	return &seed, nil
}

// Apply writes all seed records into the repository
func (s *Seed) Apply(ctx context.Context, repo interfaces.Repository) error {
	now := time.Now().UTC()

	for _, k := range s.Knowledge {
		rec := &model.KnowledgeRecord{
			ID:         model.NewKnowledgeID(),
			UserID:     k.UserID,
			Title:      k.Title,
			Content:    k.Content,
			Category:   k.Category,
			Tags:       k.Tags,
			Importance: k.Importance,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := repo.Knowledge().Put(ctx, rec); err != nil {
			return goerr.Wrap(err, "failed to seed knowledge record")
		}
	}

	for _, m := range s.Memories {
		note := &model.MemoryNote{
			ID:             model.NewMemoryID(),
			UserID:         m.UserID,
			ConversationID: m.ConversationID,
			Content:        m.Content,
			Importance:     m.Importance,
			CreatedAt:      now,
		}
		if _, err := repo.Memory().Put(ctx, note); err != nil {
			return goerr.Wrap(err, "failed to seed memory note")
		}
	}

	for _, f := range s.Files {
		rec := &model.FileRecord{
			ID:         model.NewFileID(),
			UserID:     f.UserID,
			Name:       f.Name,
			MimeType:   f.MimeType,
			Summary:    f.Summary,
			Size:       f.Size,
			ModifiedAt: now,
			CreatedAt:  now,
		}
		if _, err := repo.File().Put(ctx, rec); err != nil {
			return goerr.Wrap(err, "failed to seed file record")
		}
	}

	for _, e := range s.Emails {
		rec := &model.EmailRecord{
			ID:         model.NewEmailID(),
			UserID:     e.UserID,
			From:       e.From,
			To:         e.To,
			Subject:    e.Subject,
			Snippet:    e.Snippet,
			ReceivedAt: now,
		}
		if _, err := repo.Email().Put(ctx, rec); err != nil {
			return goerr.Wrap(err, "failed to seed email record")
		}
	}

	for _, ev := range s.Events {
		startsAt, _ := time.Parse(time.RFC3339, ev.StartsAt)
		endsAt := startsAt.Add(time.Hour)
		if ev.EndsAt != "" {
			endsAt, _ = time.Parse(time.RFC3339, ev.EndsAt)
		}
		event := &model.CalendarEvent{
			ID:          model.NewEventID(),
			UserID:      ev.UserID,
			Title:       ev.Title,
			Description: ev.Description,
			Location:    ev.Location,
			Attendees:   ev.Attendees,
			StartsAt:    startsAt,
			EndsAt:      endsAt,
			CreatedAt:   now,
		}
		if _, err := repo.Calendar().Put(ctx, event); err != nil {
			return goerr.Wrap(err, "failed to seed calendar event")
		}
	}

	for _, p := range s.Projects {
		project := &model.Project{
			ID:          model.NewProjectID(),
			UserID:      p.UserID,
			Name:        p.Name,
			Description: p.Description,
			Status:      p.Status,
			Tags:        p.Tags,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := repo.Project().Put(ctx, project); err != nil {
			return goerr.Wrap(err, "failed to seed project")
		}
	}

	for _, c := range s.Chunks {
		var embedding []float32
		if len(c.Embedding) > 0 {
			embedding = make([]float32, len(c.Embedding))
			for i, v := range c.Embedding {
				embedding[i] = float32(v)
			}
		}
		chunk := model.NewVectorChunk(c.Content, embedding, model.ChunkMetadata{
			Source:     c.Source,
			Type:       types.ChunkType(c.Type),
			Title:      c.Title,
			Tags:       c.Tags,
			Importance: c.Importance,
			UserID:     c.UserID,
		})
		if _, err := repo.Chunk().Put(ctx, chunk); err != nil {
			return goerr.Wrap(err, "failed to seed vector chunk")
		}
	}

	return nil
}
