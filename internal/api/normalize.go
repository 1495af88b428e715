package api

import (
	"strings"

	"voxrelay/internal/models"
	"voxrelay/internal/telegram"
)

// Normalize maps a raw Bot API update onto the internal variants the
// dispatcher routes on. Priority: callback, command, voice/audio, text.
// Updates with nothing actionable return ok=false and are dropped.
func Normalize(raw *telegram.Update) (models.Update, bool) {
	if raw == nil {
		return models.Update{}, false
	}

	if cq := raw.CallbackQuery; cq != nil && cq.From != nil {
		update := models.Update{
			Kind:         models.UpdateCallback,
			UserID:       cq.From.ID,
			ChatID:       cq.From.ID,
			CallbackID:   cq.ID,
			CallbackData: cq.Data,
		}
		if cq.Message != nil {
			update.MessageID = cq.Message.MessageID
			if cq.Message.Chat != nil {
				update.ChatID = cq.Message.Chat.ID
			}
		}
		return update, true
	}

	msg := raw.Message
	if msg == nil {
		msg = raw.EditedMessage
	}
	if msg == nil || msg.From == nil || msg.Chat == nil || msg.From.IsBot {
		return models.Update{}, false
	}

	base := models.Update{
		UserID: msg.From.ID,
		ChatID: msg.Chat.ID,
	}

	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "/") {
		base.Kind = models.UpdateCommand
		base.Command = commandName(text)
		return base, true
	}

	if msg.Voice != nil || msg.Audio != nil {
		base.Kind = models.UpdateVoice
		if msg.Voice != nil {
			base.MediaRef = msg.Voice.FileID
		} else {
			base.MediaRef = msg.Audio.FileID
		}
		return base, true
	}

	if text != "" {
		base.Kind = models.UpdateText
		base.Text = text
		return base, true
	}

	return models.Update{}, false
}

// commandName extracts the bare command: "/Start@SomeBot now" -> "start".
func commandName(text string) string {
	name := strings.TrimPrefix(text, "/")
	if i := strings.IndexAny(name, " \n\t"); i >= 0 {
		name = name[:i]
	}
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name)
}
