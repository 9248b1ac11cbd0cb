package ollama

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/hupe1980/duet/logging"
)

// chatChunk is one line of the streaming /api/chat response.
type chatChunk struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Stream decodes the line-delimited JSON chat response into text fragments.
// It is lazy, finite and non-restartable: fragments are produced one Next
// call at a time, iteration stops at the first done record (any trailing
// bytes are discarded, not an error), and a connection that closes before a
// done record simply ends the stream. A line that fails to parse is skipped
// without aborting. The concatenation of all fragments equals the raw final
// text.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	logger  logging.Logger
	current string
	err     error
	done    bool
	closed  bool
}

func newStream(body io.ReadCloser, logger logging.Logger) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Stream{body: body, scanner: scanner, logger: logger}
}

// Next advances to the next non-empty fragment.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}
	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk chatChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			// Malformed line: recovered locally, stream continues.
			s.logger.Debug("skipping malformed stream line", "error", err)
			continue
		}
		if chunk.Done {
			s.done = true
		}
		if chunk.Message.Content == "" {
			if s.done {
				return false
			}
			continue
		}
		s.current = chunk.Message.Content
		return true
	}
	if err := s.scanner.Err(); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = err
	}
	s.done = true
	return false
}

// Current returns the fragment produced by the last successful Next call.
func (s *Stream) Current() string { return s.current }

// Err reports a stream-level read failure, nil on a clean end.
func (s *Stream) Err() error { return s.err }

// Close releases the underlying connection.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.done = true
	return s.body.Close()
}
