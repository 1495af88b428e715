package voice

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"voxrelay/internal/models"
	"voxrelay/internal/telegram"

	"github.com/google/uuid"
)

// User-visible notices per stage. Download, transcode and transcription
// failures abort the turn; synthesis failure leaves the text reply
// standing and only adds the voice-failed notice.
const (
	msgDownloadFailed  = "Sorry, I could not process your voice message."
	msgConvertFailed   = "Sorry, I could not convert your voice message."
	msgTranscribeFailed = "Sorry, speech recognition failed."
	msgUnavailable     = "The assistant service is currently unavailable. Please try again later."
	msgVoiceReplyFailed = "Sorry, the voice reply failed."
)

// FileResolver resolves and downloads platform media references.
type FileResolver interface {
	GetFile(ctx context.Context, fileID string) (*telegram.File, error)
	DownloadFile(ctx context.Context, filePath string) (io.ReadCloser, error)
}

// Sender delivers replies to the originating chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	SendVoice(ctx context.Context, chatID int64, audio io.Reader, filename string) error
}

// Transcoder converts one audio container to another.
type Transcoder interface {
	Transcode(ctx context.Context, src, dst string) error
}

// SpeechService covers transcription and synthesis.
type SpeechService interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
	Synthesize(ctx context.Context, text, destPath string) error
}

// Responder handles one user utterance; shared with the text path.
type Responder interface {
	Respond(ctx context.Context, userID int64, text string) (string, error)
}

// Pipeline runs one complete voice turn:
// download -> transcode -> transcribe -> converse -> synthesize -> send.
type Pipeline struct {
	files      FileResolver
	bot        Sender
	transcoder Transcoder
	speech     SpeechService
	responder  Responder
	baseDir    string
}

func NewPipeline(files FileResolver, bot Sender, transcoder Transcoder, speech SpeechService, responder Responder, baseDir string) *Pipeline {
	return &Pipeline{
		files:      files,
		bot:        bot,
		transcoder: transcoder,
		speech:     speech,
		responder:  responder,
		baseDir:    baseDir,
	}
}

// Run executes one voice turn. User-visible notices are sent here; the
// returned error is for the operational log only. The per-turn workspace
// is removed on every exit path.
func (p *Pipeline) Run(ctx context.Context, userID, chatID int64, mediaRef string) error {
	job := &models.VoiceJob{
		UserID:   userID,
		ChatID:   chatID,
		MediaRef: mediaRef,
	}
	workDir := filepath.Join(p.baseDir, "voice-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		p.notify(ctx, chatID, msgDownloadFailed)
		return fmt.Errorf("create voice workspace: %w", err)
	}
	job.WorkDir = workDir
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.Printf("remove voice workspace %s failed: %v", workDir, err)
		}
	}()

	if err := p.download(ctx, job); err != nil {
		p.notify(ctx, chatID, msgDownloadFailed)
		return err
	}

	job.DecodedPath = filepath.Join(workDir, "voice.mp3")
	if err := p.transcoder.Transcode(ctx, job.RawPath, job.DecodedPath); err != nil {
		p.notify(ctx, chatID, msgConvertFailed)
		return fmt.Errorf("transcode voice message: %w", err)
	}

	transcript, err := p.speech.Transcribe(ctx, job.DecodedPath)
	if err != nil {
		p.notify(ctx, chatID, msgTranscribeFailed)
		return fmt.Errorf("transcribe voice message: %w", err)
	}
	job.Transcript = transcript

	reply, err := p.responder.Respond(ctx, userID, transcript)
	if err != nil {
		p.notify(ctx, chatID, msgUnavailable)
		return fmt.Errorf("complete voice transcript: %w", err)
	}
	job.ReplyText = reply
	if err := p.bot.SendMessage(ctx, chatID, reply, nil); err != nil {
		return fmt.Errorf("send text reply: %w", err)
	}

	// From here on the turn has succeeded from the user's point of view;
	// synthesis problems only add a separate notice.
	job.ReplyAudioPath = filepath.Join(workDir, "reply.mp3")
	if err := p.speech.Synthesize(ctx, reply, job.ReplyAudioPath); err != nil {
		p.notify(ctx, chatID, msgVoiceReplyFailed)
		return fmt.Errorf("synthesize voice reply: %w", err)
	}
	audio, err := os.Open(job.ReplyAudioPath)
	if err != nil {
		p.notify(ctx, chatID, msgVoiceReplyFailed)
		return fmt.Errorf("open voice reply: %w", err)
	}
	defer audio.Close()
	if err := p.bot.SendVoice(ctx, chatID, audio, "reply.mp3"); err != nil {
		p.notify(ctx, chatID, msgVoiceReplyFailed)
		return fmt.Errorf("send voice reply: %w", err)
	}
	return nil
}

func (p *Pipeline) download(ctx context.Context, job *models.VoiceJob) error {
	file, err := p.files.GetFile(ctx, job.MediaRef)
	if err != nil {
		return fmt.Errorf("resolve media %s: %w", job.MediaRef, err)
	}
	body, err := p.files.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return fmt.Errorf("download media %s: %w", job.MediaRef, err)
	}
	defer body.Close()

	job.RawPath = filepath.Join(job.WorkDir, "voice.oga")
	out, err := os.Create(job.RawPath)
	if err != nil {
		return fmt.Errorf("create raw audio file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, body); err != nil {
		return fmt.Errorf("write raw audio file: %w", err)
	}
	return nil
}

func (p *Pipeline) notify(ctx context.Context, chatID int64, text string) {
	if err := p.bot.SendMessage(ctx, chatID, text, nil); err != nil {
		log.Printf("send notice to chat %d failed: %v", chatID, err)
	}
}
