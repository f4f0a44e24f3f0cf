package types

type Participant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ParticipantInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ParticipantSummary is a participant as listed for one event.
type ParticipantSummary struct {
	ParticipantID   int64  `json:"participant_id"`
	ParticipantName string `json:"participant_name"`
	Email           string `json:"email"`
}

// EventParticipant is one association row. Pairs may repeat and may point
// at rows that no longer exist.
type EventParticipant struct {
	ID            int64 `json:"id"`
	EventID       int64 `json:"event_id"`
	ParticipantID int64 `json:"participant_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AssociationResponse struct {
	Message     string           `json:"message"`
	Association EventParticipant `json:"association"`
}
