package presenter

import (
	liveDTO "github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/dto/live"
	transcriptDTO "github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/dto/transcript"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/transcript"
)

// ToTranscriptResponse converts a Transcript entity to its DTO
func ToTranscriptResponse(t *entities.Transcript) transcriptDTO.TranscriptResponse {
	return transcriptDTO.TranscriptResponse{
		ID:              t.ID,
		Text:            t.Text,
		UserID:          t.UserID,
		Filename:        t.Filename,
		DurationSeconds: t.DurationSeconds,
		Language:        t.Language,
		CreatedAt:       t.CreatedAt,
	}
}

// ToListTranscriptsResponse converts a read result to its DTO
func ToListTranscriptsResponse(result transcript.ListResult) *transcriptDTO.ListTranscriptsResponse {
	items := make([]transcriptDTO.TranscriptResponse, 0, len(result.Transcripts))
	for _, t := range result.Transcripts {
		items = append(items, ToTranscriptResponse(t))
	}
	return &transcriptDTO.ListTranscriptsResponse{
		Store:       result.Store,
		Count:       len(items),
		Transcripts: items,
	}
}

// ToPersistResponse converts a persistence outcome to its DTO
func ToPersistResponse(result transcript.PersistResult) transcriptDTO.PersistResponse {
	return transcriptDTO.PersistResponse{
		Store:         result.Store,
		ID:            result.ID,
		Degraded:      result.Degraded,
		UserIDDropped: result.UserIDDropped,
	}
}

// ToSessionResponse converts a LiveSession entity to its DTO
func ToSessionResponse(s *entities.LiveSession) liveDTO.SessionResponse {
	return liveDTO.SessionResponse{
		SessionID:       s.ID,
		Status:          string(s.Status),
		Text:            s.Text,
		Filename:        s.Filename,
		TotalChunks:     s.TotalChunks,
		ProcessedChunks: s.ProcessedChunks,
		Progress:        s.Progress,
		DurationSeconds: s.DurationSeconds,
		UpdatedAt:       s.UpdatedAt,
	}
}
