package config

import (
	"slices"
	"testing"

	"golang.org/x/text/language"
)

func TestAuthConfig_Enabled(t *testing.T) {
	t.Parallel()

	if (AuthConfig{}).Enabled() {
		t.Error("empty secret should disable auth")
	}
	if !(AuthConfig{JWTSecret: "x"}).Enabled() {
		t.Error("any secret should enable auth")
	}
}

func TestCORSConfig_Origins(t *testing.T) {
	t.Parallel()

	cfg := CORSConfig{AllowedOrigins: " https://a.example , ,https://b.example"}
	got := cfg.Origins()
	want := []string{"https://a.example", "https://b.example"}

	if !slices.Equal(got, want) {
		t.Errorf("Origins() = %v, want %v", got, want)
	}
	if (CORSConfig{}).Origins() != nil {
		t.Error("empty origins should yield nil")
	}
}

func TestEditorConfig_CollationTag(t *testing.T) {
	t.Parallel()

	tag, err := EditorConfig{Collation: "sv"}.CollationTag()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != language.Swedish {
		t.Errorf("CollationTag() = %v, want sv", tag)
	}

	tag, err = EditorConfig{}.CollationTag()
	if err != nil || tag != language.Und {
		t.Errorf("CollationTag() = %v, %v; want und, nil", tag, err)
	}
}
