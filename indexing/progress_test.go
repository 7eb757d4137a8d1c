package indexing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 4)

	tracker.Increment(5)
	assert.Equal(t, 0, tracker.Current(), "updates before Start are ignored")

	tracker.Start()
	tracker.Increment(2)
	assert.Empty(t, buf.String())

	tracker.Increment(2)
	assert.Contains(t, buf.String(), "Indexed: 4/10 (40.0%)")

	tracker.Increment(100)
	assert.Equal(t, 10, tracker.Current())

	tracker.Finish()
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "Indexed: 10/10 (100.0%)")
}

func TestProgressTracker_NilWriter(t *testing.T) {
	tracker := NewProgressTracker(nil, 3, 0)
	tracker.Start()
	tracker.Increment(3)
	tracker.Finish()
	assert.Equal(t, 3, tracker.Current())
}
