package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMath_MinMax(t *testing.T) {
	assert.Equal(t, 2, Min(2, 5))
	assert.Equal(t, 2, Min(5, 2))
	assert.Equal(t, 5.5, Max(1.0, 5.5))
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, 1.0, Clamp(7.0, 0, 1))
	assert.Equal(t, 0.0, Clamp(-2.0, 0, 1))
	assert.True(t, Contains([]string{".png", ".jpg"}, ".jpg"))
	assert.False(t, Contains([]string{".png"}, ".gif"))
}

func TestFormat_Helpers(t *testing.T) {
	assert.Equal(t, "1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal(t, "2m 5.00s", FormatTime(125*time.Second))
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KiB", FormatBytes(1536))
	assert.Equal(t, "3.0 MiB", FormatBytes(3<<20))
	assert.Equal(t, ErrorColor+"x"+DefaultColor, DecorateText("x", ErrorMessage))
}
