package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"Normal text", "Hello World", "Hello World", nil},
		{"Accents and emoji", "Élodie 💪", "Élodie 💪", nil},
		{"Safe controls", "a\nb\tc\r", "a\nb\tc\r", nil},
		{"ANSI escape", "\x1b[31mRed\x1b[0m", "[31mRed[0m", nil},
		{"Null and bell", "Nu\x00ll\x07", "Null", nil},
		{"At the limit", strings.Repeat("a", DefaultMaxInputSize), strings.Repeat("a", DefaultMaxInputSize), nil},
		{"Over the limit", strings.Repeat("a", DefaultMaxInputSize+1), "", ErrInputTooLarge},
		{"Invalid UTF-8", "\xbd\xb2\x3d\xbc", "", ErrInvalidUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	_, err := SanitizeInput("12345678901")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = SanitizeInput("12345")
	assert.NoError(t, err)

	t.Setenv(EnvMaxInputSize, "garbage")
	_, err = SanitizeInput("12345678901")
	assert.NoError(t, err, "invalid override falls back to the default")
}
