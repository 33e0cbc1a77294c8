package types

import "github.com/m-mizutani/goerr/v2"

// ChunkType identifies the origin kind of a vector chunk
type ChunkType string

const (
	ChunkTypeConversation  ChunkType = "conversation"
	ChunkTypeDocument      ChunkType = "document"
	ChunkTypeTranscription ChunkType = "transcription"
	ChunkTypeKnowledge     ChunkType = "knowledge"
)

// String returns the string representation of the ChunkType
func (x ChunkType) String() string {
	return string(x)
}

// Validate checks if the ChunkType is one of the known kinds
func (x ChunkType) Validate() error {
	switch x {
	case ChunkTypeConversation, ChunkTypeDocument, ChunkTypeTranscription, ChunkTypeKnowledge:
		return nil
	}
	return goerr.New("invalid chunk type", goerr.V("type", string(x)))
}
