//go:build darwin

package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeAppleScript(t *testing.T) {
	assert.Equal(t, "Hello", escapeAppleScript("Hello"))
	assert.Equal(t, `Hello \"World\"`, escapeAppleScript(`Hello "World"`))
	assert.Equal(t, `Path\\to\\file`, escapeAppleScript(`Path\to\file`))
}
