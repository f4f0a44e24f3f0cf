package types

// Event is a row of the events table. Null text columns surface as "".
type Event struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Date        Date   `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// EventInput carries the mutable event fields for create and update. Every
// field is optional; missing fields are stored as empty.
type EventInput struct {
	Name        string `json:"name"`
	Date        Date   `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// EventWithParticipants is an event with its associated participants nested.
// The id and name keys match the listing consumed by the web client.
type EventWithParticipants struct {
	EventID      int64         `json:"event_id"`
	EventName    string        `json:"event_name"`
	Date         Date          `json:"date"`
	Location     string        `json:"location"`
	Description  string        `json:"description"`
	Type         string        `json:"type"`
	Participants []Participant `json:"participants"`
}

// EventSummary is an event as listed for one participant.
type EventSummary struct {
	EventID   int64  `json:"event_id"`
	EventName string `json:"event_name"`
}
