package models

// VoiceJob tracks the artifacts of a single voice turn. All paths live
// inside WorkDir, which is removed when the turn finishes.
type VoiceJob struct {
	UserID         int64
	ChatID         int64
	MediaRef       string
	WorkDir        string
	RawPath        string
	DecodedPath    string
	Transcript     string
	ReplyText      string
	ReplyAudioPath string
}
