// Package agent implements the conversational client driving one model
// identity: it owns a bounded message history, streams generations through
// a model.Backend, filters finalized output, and collapses the history to a
// summary once it exceeds the trim threshold.
package agent
