package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"voxrelay/internal/models"
	"voxrelay/internal/service/ai"
	"voxrelay/internal/service/session"
	"voxrelay/internal/telegram"
)

const defaultTaskTimeout = 2 * time.Minute

// User-visible copy for the command/callback/text paths.
const (
	msgGreeting       = "Hello! I am up and ready. Send me a message or open the /menu."
	msgMenuPrompt     = "Choose a mode:"
	msgGeneralEnabled = "General chat mode enabled. Just type your message."
	msgVoiceEnabled   = "Voice mode enabled. Send me a voice message."
	msgHistoryCleared = "Conversation history cleared."
	msgSendVoice      = "Please send a voice message."
	msgUnavailable    = "The assistant service is currently unavailable. Please try again later."
	msgGenericFailure = "Sorry, something went wrong. Please try again."
)

// Callback data values emitted by the inline menu.
const (
	callbackGeneral = "general"
	callbackVoice   = "voiceMode"
	callbackClear   = "clear"
)

// Sender is the slice of the platform client the manager replies through.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	EditMessageText(ctx context.Context, chatID, messageID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
}

// Responder handles one user utterance (the text path).
type Responder interface {
	Respond(ctx context.Context, userID int64, text string) (string, error)
}

// VoicePipeline runs one complete voice turn.
type VoicePipeline interface {
	Run(ctx context.Context, userID, chatID int64, mediaRef string) error
}

// ContextStore is the slice of the history store the manager touches.
type ContextStore interface {
	Clear(userID int64)
}

// Manager routes dispatched updates to the right handler. Each job gets
// a bounded context; failures and panics are contained here and turned
// into a single generic reply.
type Manager struct {
	bot         Sender
	sessions    *session.Store
	history     ContextStore
	responder   Responder
	voice       VoicePipeline
	taskTimeout time.Duration
}

func NewManager(bot Sender, sessions *session.Store, history ContextStore, responder Responder, voice VoicePipeline) *Manager {
	return &Manager{
		bot:         bot,
		sessions:    sessions,
		history:     history,
		responder:   responder,
		voice:       voice,
		taskTimeout: defaultTaskTimeout,
	}
}

// Handle processes one normalized update to completion. It never
// propagates a failure to the dispatcher.
func (m *Manager) Handle(update models.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), m.taskTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("handler panic for user %d: %v", update.UserID, r)
			if err := m.bot.SendMessage(ctx, update.ChatID, msgGenericFailure, nil); err != nil {
				log.Printf("send failure notice to chat %d failed: %v", update.ChatID, err)
			}
		}
	}()

	switch update.Kind {
	case models.UpdateCommand:
		m.handleCommand(ctx, update)
	case models.UpdateCallback:
		m.handleCallback(ctx, update)
	case models.UpdateVoice:
		m.handleVoice(ctx, update)
	case models.UpdateText:
		m.handleText(ctx, update)
	}
}

func (m *Manager) handleCommand(ctx context.Context, update models.Update) {
	switch update.Command {
	case "start":
		m.send(ctx, update.ChatID, msgGreeting, nil)
	case "menu":
		m.send(ctx, update.ChatID, msgMenuPrompt, menuKeyboard())
	default:
		debugLog("[manager] ignoring unknown command /%s from user %d", update.Command, update.UserID)
	}
}

func (m *Manager) handleCallback(ctx context.Context, update models.Update) {
	if err := m.bot.AnswerCallbackQuery(ctx, update.CallbackID); err != nil {
		// Platform-level ack only; the mode change still proceeds.
		log.Printf("answer callback %s failed: %v", update.CallbackID, err)
	}

	switch update.CallbackData {
	case callbackGeneral:
		m.sessions.SetMode(update.UserID, session.ModeGeneral)
		m.edit(ctx, update.ChatID, update.MessageID, msgGeneralEnabled)
	case callbackVoice:
		m.sessions.SetMode(update.UserID, session.ModeVoice)
		m.edit(ctx, update.ChatID, update.MessageID, msgVoiceEnabled)
	case callbackClear:
		m.history.Clear(update.UserID)
		m.edit(ctx, update.ChatID, update.MessageID, msgHistoryCleared)
	default:
		debugLog("[manager] ignoring unknown callback data %q from user %d", update.CallbackData, update.UserID)
	}
}

func (m *Manager) handleText(ctx context.Context, update models.Update) {
	reply, err := m.responder.Respond(ctx, update.UserID, update.Text)
	if err != nil {
		log.Printf("text turn for user %d failed: %v", update.UserID, err)
		if errors.Is(err, ai.ErrUpstream) {
			m.send(ctx, update.ChatID, msgUnavailable, nil)
		} else {
			m.send(ctx, update.ChatID, msgGenericFailure, nil)
		}
		return
	}
	m.send(ctx, update.ChatID, reply, nil)
}

func (m *Manager) handleVoice(ctx context.Context, update models.Update) {
	if update.MediaRef == "" {
		m.send(ctx, update.ChatID, msgSendVoice, nil)
		return
	}
	// The pipeline owns the user-visible stage notices.
	if err := m.voice.Run(ctx, update.UserID, update.ChatID, update.MediaRef); err != nil {
		log.Printf("voice turn for user %d failed: %v", update.UserID, err)
	}
}

func (m *Manager) send(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) {
	if err := m.bot.SendMessage(ctx, chatID, text, keyboard); err != nil {
		log.Printf("send message to chat %d failed: %v", chatID, err)
	}
}

func (m *Manager) edit(ctx context.Context, chatID, messageID int64, text string) {
	if err := m.bot.EditMessageText(ctx, chatID, messageID, text, nil); err != nil {
		log.Printf("edit message %d in chat %d failed: %v", messageID, chatID, err)
	}
}

func menuKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "General chat", CallbackData: callbackGeneral}},
			{{Text: "Voice mode", CallbackData: callbackVoice}},
			{{Text: "Clear history", CallbackData: callbackClear}},
		},
	}
}
