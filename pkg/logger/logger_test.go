package logger

import (
	"log"
	"testing"
)

func TestNewPrefixesCommandName(t *testing.T) {
	t.Parallel()

	l := New("seed")

	if got := l.Prefix(); got != "seed: " {
		t.Errorf("prefix: got %q, want %q", got, "seed: ")
	}
	if l.Flags()&log.Lmsgprefix == 0 {
		t.Error("prefix must sit next to the message, not the timestamp")
	}
}
