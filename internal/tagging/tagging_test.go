package tagging

import (
	"errors"
	"testing"
)

func TestHashHex_KnownVector(t *testing.T) {
	// BLAKE3 of the empty input.
	want := "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	if got := HashHex(nil); got != want {
		t.Errorf("HashHex(nil) = %s, want %s", got, want)
	}
}

func TestContentTagger_Deterministic(t *testing.T) {
	tagger, err := NewContentTagger(0)
	if err != nil {
		t.Fatal(err)
	}
	a, err := tagger.Tag([]byte("<html>one</html>"))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := tagger.Tag([]byte("<html>one</html>"))
	c, _ := tagger.Tag([]byte("<html>two</html>"))
	if a != b {
		t.Errorf("same payload gave %q and %q", a, b)
	}
	if a == c {
		t.Errorf("different payloads gave the same tag %q", a)
	}
	if len(a) != DefaultLength {
		t.Errorf("len(tag) = %d, want %d", len(a), DefaultLength)
	}
}

func TestContentTagger_Length(t *testing.T) {
	tests := []struct {
		length  int
		wantErr bool
	}{
		{0, false},
		{8, false},
		{64, false},
		{7, true},
		{65, true},
	}
	for _, tt := range tests {
		_, err := NewContentTagger(tt.length)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewContentTagger(%d) err = %v, wantErr %v", tt.length, err, tt.wantErr)
		}
	}
}

func TestContentTagger_EmptyPayload(t *testing.T) {
	tagger, _ := NewContentTagger(16)
	if _, err := tagger.Tag(nil); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("Tag(nil) err = %v, want ErrEmptyPayload", err)
	}
}
