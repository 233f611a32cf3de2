package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigure(t *testing.T) {
	t.Run("parses level", func(t *testing.T) {
		log := logrus.New()
		Configure(log, "DEBUG", "text")
		if log.GetLevel() != logrus.DebugLevel {
			t.Errorf("Expected debug, got %s", log.GetLevel())
		}
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		log := logrus.New()
		Configure(log, "chatty", "text")
		if log.GetLevel() != logrus.InfoLevel {
			t.Errorf("Expected info, got %s", log.GetLevel())
		}
	})

	t.Run("json format emits JSON", func(t *testing.T) {
		log := logrus.New()
		Configure(log, "info", "json")
		var buf bytes.Buffer
		log.SetOutput(&buf)

		log.WithField("action", "apply").Info("done")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("Expected JSON output, got %q", buf.String())
		}
		if entry["action"] != "apply" {
			t.Errorf("Expected action field, got %v", entry)
		}
	})
}
