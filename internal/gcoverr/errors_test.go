package gcoverr

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationErrorMessage(t *testing.T) {
	cause := errors.New("missing closing )")
	err := NewConfigurationError("filter", "invalid pattern \"(a\"", cause)

	assert.Equal(t, "configuration error (filter): invalid pattern \"(a\": missing closing )", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ExitConfiguration, err.ExitCode())
}

func TestConfigurationErrorWithoutOption(t *testing.T) {
	err := NewConfigurationError("", "root must not be empty", nil)
	assert.Equal(t, "configuration error: root must not be empty", err.Error())
}

func TestFilesystemErrorMessage(t *testing.T) {
	err := NewFilesystemError("/no/such/dir", "unknown directory", os.ErrNotExist)

	assert.Equal(t, "unknown directory '/no/such/dir': file does not exist", err.Error())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCategoryHelpers(t *testing.T) {
	cfgErr := fmt.Errorf("setup: %w", NewConfigurationError("root", "empty", nil))
	fsErr := fmt.Errorf("discover: %w", NewFilesystemError("/x", "unknown directory", nil))

	assert.True(t, IsConfiguration(cfgErr))
	assert.False(t, IsFilesystem(cfgErr))
	assert.True(t, IsFilesystem(fsErr))
	assert.False(t, IsConfiguration(fsErr))
}

func TestExitCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), ExitGeneric},
		{"configuration", NewConfigurationError("x", "bad", nil), ExitConfiguration},
		{"wrapped filesystem", fmt.Errorf("run: %w", NewFilesystemError("/x", "gone", nil)), ExitFilesystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeOf(tt.err))
		})
	}
}
