// Package model defines the minimal generation backend contract used by
// agents: a chat request carrying a bounded message history, a pull-style
// fragment stream, and a pre-flight availability check. Provider adapters
// live in the subpackages (ollama, openai, anthropic); MockBackend offers a
// deterministic in-memory implementation for tests.
package model
