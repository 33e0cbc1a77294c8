package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/butler/pkg/domain/types"
)

// EmbeddingDimension is the dimension of the embedding vector.
// OpenAI text-embedding-3-small uses 1536 dimensions.
const EmbeddingDimension = 1536

// MaxChunkContentLength is the maximum stored content length of a chunk.
// Longer content is truncated before storage, not rejected.
const MaxChunkContentLength = 2000

// ChunkID is a UUID-based identifier for VectorChunk
type ChunkID string

// NewChunkID generates a new UUID v4 ChunkID
func NewChunkID() ChunkID {
	return ChunkID(uuid.New().String())
}

// ChunkMetadata describes where a chunk came from and how important it is
type ChunkMetadata struct {
	Source     string
	SourceID   string
	Type       types.ChunkType
	Title      string
	Tags       []string
	Importance float64 // 0.0 - 1.0
	CreatedAt  time.Time
	UserID     string
}

// VectorChunk is a unit of retrievable knowledge: a bounded piece of text
// plus its embedding. Chunks are immutable after creation; updates create
// new chunks rather than mutating vectors in place.
type VectorChunk struct {
	ID        ChunkID
	Content   string
	Embedding []float32
	Metadata  ChunkMetadata
}

// NewVectorChunk creates a chunk with a generated ID and truncated content
func NewVectorChunk(content string, embedding []float32, meta ChunkMetadata) *VectorChunk {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}
	return &VectorChunk{
		ID:        NewChunkID(),
		Content:   TruncateText(content, MaxChunkContentLength),
		Embedding: embedding,
		Metadata:  meta,
	}
}

// Clone returns a deep copy of the chunk
func (x *VectorChunk) Clone() *VectorChunk {
	copied := &VectorChunk{
		ID:       x.ID,
		Content:  x.Content,
		Metadata: x.Metadata,
	}
	if x.Embedding != nil {
		copied.Embedding = make([]float32, len(x.Embedding))
		copy(copied.Embedding, x.Embedding)
	}
	if x.Metadata.Tags != nil {
		copied.Metadata.Tags = make([]string, len(x.Metadata.Tags))
		copy(copied.Metadata.Tags, x.Metadata.Tags)
	}
	return copied
}

// TruncateText shortens s to at most limit characters, counting runes so a
// multi-byte character is never split
func TruncateText(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
