package htmlsanitize_test

import (
	"testing"

	"github.com/getmeachai/getmeachai/internal/app/system/htmlsanitize"
)

func TestPlain_Empty(t *testing.T) {
	result := htmlsanitize.Plain("")
	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestPlain_PlainText(t *testing.T) {
	result := htmlsanitize.Plain("Great work, keep it up!")
	if result != "Great work, keep it up!" {
		t.Errorf("expected plain text unchanged, got %q", result)
	}
}

func TestPlain_RemovesScript(t *testing.T) {
	result := htmlsanitize.Plain("hello<script>alert('xss')</script>")
	if result != "hello" {
		t.Errorf("expected script removed, got %q", result)
	}
}

func TestPlain_RemovesTags(t *testing.T) {
	result := htmlsanitize.Plain("<b>Bob</b>")
	if result != "Bob" {
		t.Errorf("expected tags stripped, got %q", result)
	}
}

func TestPlain_RemovesImgOnerror(t *testing.T) {
	result := htmlsanitize.Plain(`<img src=x onerror="alert(1)">Bob`)
	if result != "Bob" {
		t.Errorf("expected img removed, got %q", result)
	}
}
