package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.Client(), srv.URL, "123:abc"), srv
}

func TestGetMe(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot123:abc/getMe" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `{"ok":true,"result":{"id":99,"is_bot":true,"username":"relay_bot"}}`)
	})
	defer srv.Close()

	me, err := client.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.ID != 99 || me.Username != "relay_bot" {
		t.Fatalf("unexpected user: %+v", me)
	}
}

func TestSendMessagePayload(t *testing.T) {
	var got sendMessageRequest
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		io.WriteString(w, `{"ok":true,"result":{}}`)
	})
	defer srv.Close()

	keyboard := &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "General chat", CallbackData: "general"}},
	}}
	if err := client.SendMessage(context.Background(), 42, "  hello  ", keyboard); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if got.ChatID != 42 || got.Text != "hello" {
		t.Fatalf("request = %+v, want trimmed text for chat 42", got)
	}
	if got.ReplyMarkup == nil || len(got.ReplyMarkup.InlineKeyboard) != 1 {
		t.Fatalf("keyboard not forwarded: %+v", got.ReplyMarkup)
	}
}

func TestCallReportsHTTPError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})
	defer srv.Close()

	err := client.SendMessage(context.Background(), 42, "hello", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "telegram http 429") {
		t.Fatalf("error = %v, want http status in message", err)
	}
}

func TestCallReportsAPIError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"description":"Bad Request: chat not found"}`)
	})
	defer srv.Close()

	err := client.SendMessage(context.Background(), 42, "hello", nil)
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("error = %v, want API description", err)
	}
}

func TestGetFileRejectsEmptyPath(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"result":{"file_id":"f1","file_size":10}}`)
	})
	defer srv.Close()

	if _, err := client.GetFile(context.Background(), "f1"); err == nil {
		t.Fatal("expected error for missing file_path")
	}
}

func TestDownloadFile(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/file/bot123:abc/voice/file_1.oga" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, "ogg-bytes")
	})
	defer srv.Close()

	body, err := client.DownloadFile(context.Background(), "voice/file_1.oga")
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	defer body.Close()
	raw, _ := io.ReadAll(body)
	if string(raw) != "ogg-bytes" {
		t.Fatalf("content = %q", raw)
	}
}

func TestSendVoiceMultipart(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			io.WriteString(w, `{"ok":true,"result":{}}`)
			return
		}
		if got := r.FormValue("chat_id"); got != "42" {
			t.Errorf("chat_id = %q", got)
		}
		file, header, err := r.FormFile("voice")
		if err != nil {
			t.Errorf("voice part: %v", err)
		} else {
			defer file.Close()
			if header.Filename != "reply.mp3" {
				t.Errorf("filename = %q", header.Filename)
			}
			raw, _ := io.ReadAll(file)
			if string(raw) != "mp3-bytes" {
				t.Errorf("voice content = %q", raw)
			}
		}
		io.WriteString(w, `{"ok":true,"result":{}}`)
	})
	defer srv.Close()

	err := client.SendVoice(context.Background(), 42, strings.NewReader("mp3-bytes"), "reply.mp3")
	if err != nil {
		t.Fatalf("SendVoice: %v", err)
	}
}
