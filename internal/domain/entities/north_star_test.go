package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEndOfYear(t *testing.T) {
	assert.Equal(t, day(2026, time.December, 31), EndOfYear(day(2026, time.February, 14)))
	assert.Equal(t, day(2026, time.December, 31), EndOfYear(day(2026, time.December, 31)))
	assert.Equal(t, day(2027, time.December, 31), EndOfYear(time.Date(2027, time.January, 1, 9, 0, 0, 0, time.UTC)))
}
