package config

import (
	"strings"
	"testing"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("CHAT_BASE_URL", "")
	t.Setenv("STUDENT_ID", "")
	t.Setenv("SPEECH_LOCALE", "")
	t.Setenv("SYNTH_PROVIDER", "")
	cfg := Load()
	if cfg.ChatBaseURL == "" {
		t.Fatalf("expected default chat base url")
	}
	if !strings.HasPrefix(cfg.StudentID, "anonymous_") {
		t.Fatalf("expected anonymous fallback identity, got %q", cfg.StudentID)
	}
	if cfg.SpeechLocale != "fa-IR" {
		t.Fatalf("expected default locale, got %q", cfg.SpeechLocale)
	}
	if cfg.SynthProvider != "backend" {
		t.Fatalf("expected default synth provider, got %q", cfg.SynthProvider)
	}
}

func TestLoad_ExplicitIdentityKept(t *testing.T) {
	t.Setenv("STUDENT_ID", "stu-42")
	cfg := Load()
	if cfg.StudentID != "stu-42" {
		t.Fatalf("identity overridden: %q", cfg.StudentID)
	}
}
