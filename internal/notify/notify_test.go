package notify

import (
	"testing"

	"github.com/tolgaer/punchwatch/internal/engine"
)

func TestMessageFor(t *testing.T) {
	title, body := messageFor(engine.KindPreAlert)
	if title == "" || body == "" {
		t.Fatal("pre-alert message empty")
	}
	title2, _ := messageFor(engine.KindCompletion)
	if title2 == title {
		t.Fatal("kinds should have distinct titles")
	}
	// Unknown kinds still produce something usable.
	title3, body3 := messageFor("mystery")
	if title3 == "" || body3 != "mystery" {
		t.Fatalf("unexpected fallback: %q %q", title3, body3)
	}
}
