package retry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMangleAlertWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"warning", "warning", "warn1ng"},
		{"error", "error", "err0r"},
		{"fatal", "fatal", "fata1"},
		{"fail", "fail", "fai1"},
		{"exception", "exception", "excepti0n"},
		{"uppercase", "ERROR", "ERR0R"},
		{"mixed case", "Warning", "Warn1ng"},
		{"inside larger word", "failure", "fai1ure"},
		{"multiple words", "fatal error: warning issued", "fata1 err0r: warn1ng issued"},
		{"repeated word", "error error", "err0r err0r"},
		{"no alert words", "all quiet on the western front", "all quiet on the western front"},
		{"empty", "", ""},
		{"already mangled is stable", "err0r warn1ng", "err0r warn1ng"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, MangleAlertWords(test.input))
		})
	}
}
