package server

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"strings"
	"testing"
	"time"
)

func receive(t *testing.T, ch <-chan ConsoleMessage) ConsoleMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for console message")
		return ConsoleMessage{}
	}
}

func TestWebLogger_ForwardsFormattedMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("render-1", messageChan)

	logger.Printf("Pass %d: %d tiles (%.0f%%)\n", 3, 24, 50.0)
	logger.Printf("Starting progressive rendering with %d passes...\n", 5)

	first := receive(t, messageChan)
	if first.Message != "Pass 3: 24 tiles (50%)\n" {
		t.Errorf("Expected formatted message, got %q", first.Message)
	}
	if first.Level != LevelInfo {
		t.Errorf("Expected level %q, got %q", LevelInfo, first.Level)
	}
	if time.Since(first.Timestamp) > time.Second {
		t.Errorf("Timestamp seems too old: %v", first.Timestamp)
	}

	// Order is preserved
	if second := receive(t, messageChan); !strings.HasPrefix(second.Message, "Starting") {
		t.Errorf("Expected second message to be the start line, got %q", second.Message)
	}
}

func TestWebLogger_TagsServerLog(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	NewWebLogger("render-42", nil).Printf("Pass %d completed\n", 1)

	line := buf.String()
	if !strings.Contains(line, "[render-42] Pass 1 completed") {
		t.Errorf("Expected server log line tagged with render ID, got %q", line)
	}
	if strings.Count(line, "\n") != 1 {
		t.Errorf("Expected exactly one log line, got %q", line)
	}
}

func TestWebLogger_DropsWhenChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("render-full", messageChan)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			logger.Printf("Message %d\n", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Logger blocked on a full channel")
	}

	if msg := receive(t, messageChan); msg.Message != "Message 0\n" {
		t.Errorf("Expected the first message to be kept, got %q", msg.Message)
	}
	if len(messageChan) != 0 {
		t.Errorf("Expected later messages to be dropped, %d still queued", len(messageChan))
	}
}

func TestMessageLevel(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Pass 1 completed in 2s\n", LevelInfo},
		{"Warning: large image\n", LevelWarning},
		{"Rendering cancelled before pass 3\n", LevelWarning},
		{"Error encoding tile\n", LevelError},
		{"  failed to encode image\n", LevelError},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := messageLevel(tt.message); got != tt.want {
				t.Errorf("messageLevel(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestConsoleMessage_JSONSerialization(t *testing.T) {
	msg := ConsoleMessage{
		Message:   "Test message",
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:     LevelWarning,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := map[string]string{
		"message":   "Test message",
		"level":     "warning",
		"timestamp": "2024-01-02T03:04:05Z",
	}
	for key, value := range want {
		if decoded[key] != value {
			t.Errorf("Expected %s %q, got %q", key, value, decoded[key])
		}
	}
}
