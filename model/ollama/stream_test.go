package ollama

import (
	"io"
	"strings"
	"testing"

	"github.com/hupe1980/duet/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, raw string) ([]string, error) {
	t.Helper()
	s := newStream(io.NopCloser(strings.NewReader(raw)), logging.NoOpLogger{})
	defer s.Close()
	var fragments []string
	for s.Next() {
		fragments = append(fragments, s.Current())
	}
	return fragments, s.Err()
}

func TestStreamConcatenation(t *testing.T) {
	raw := `{"message":{"role":"assistant","content":"Hel"},"done":false}
{"message":{"role":"assistant","content":"lo "},"done":false}
{"message":{"role":"assistant","content":"world"},"done":false}
{"message":{"role":"assistant","content":""},"done":true}
`
	fragments, err := collect(t, raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo ", "world"}, fragments)
	assert.Equal(t, "Hello world", strings.Join(fragments, ""))
}

func TestStreamSkipsMalformedLine(t *testing.T) {
	clean := `{"message":{"role":"assistant","content":"A"},"done":false}
{"message":{"role":"assistant","content":"B"},"done":true}
`
	dirty := `{"message":{"role":"assistant","content":"A"},"done":false}
{not json at all
{"message":{"role":"assistant","content":"B"},"done":true}
`
	cleanFragments, err := collect(t, clean)
	require.NoError(t, err)
	dirtyFragments, err := collect(t, dirty)
	require.NoError(t, err)
	assert.Equal(t, cleanFragments, dirtyFragments)
}

func TestStreamStopsAtDone(t *testing.T) {
	raw := `{"message":{"role":"assistant","content":"keep"},"done":true}
{"message":{"role":"assistant","content":"discarded"},"done":false}
`
	fragments, err := collect(t, raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, fragments)
}

func TestStreamSkipsEmptyFragments(t *testing.T) {
	raw := `{"message":{"role":"assistant","content":""},"done":false}
{"message":{"role":"assistant","content":"x"},"done":false}

{"message":{"role":"assistant","content":""},"done":false}
{"message":{"role":"assistant","content":"y"},"done":true}
`
	fragments, err := collect(t, raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, fragments)
}

func TestStreamEndsOnConnectionClose(t *testing.T) {
	// No done record at all: iteration simply ends without error.
	raw := `{"message":{"role":"assistant","content":"partial"},"done":false}
`
	fragments, err := collect(t, raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"partial"}, fragments)
}

func TestStreamEmptyBody(t *testing.T) {
	fragments, err := collect(t, "")
	require.NoError(t, err)
	assert.Empty(t, fragments)
}

func TestStreamNonRestartable(t *testing.T) {
	raw := `{"message":{"role":"assistant","content":"once"},"done":true}
`
	s := newStream(io.NopCloser(strings.NewReader(raw)), logging.NoOpLogger{})
	defer s.Close()
	require.True(t, s.Next())
	assert.Equal(t, "once", s.Current())
	assert.False(t, s.Next())
	assert.False(t, s.Next())
}
