package models

// UpdateKind discriminates the normalized inbound event variants.
type UpdateKind int

const (
	UpdateCommand UpdateKind = iota
	UpdateCallback
	UpdateVoice
	UpdateText
)

// Update is one normalized inbound event from the messaging platform.
// Exactly the fields for its kind are populated; the rest stay zero.
type Update struct {
	Kind   UpdateKind
	UserID int64
	ChatID int64

	// UpdateCommand
	Command string

	// UpdateText
	Text string

	// UpdateVoice; platform file id of the voice/audio payload.
	MediaRef string

	// UpdateCallback
	CallbackID   string
	CallbackData string
	MessageID    int64
}
