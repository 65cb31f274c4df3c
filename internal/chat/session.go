// Package chat holds per-notebook conversation state. It is a pure state
// machine: callers issue the network calls and feed the tagged results back
// in, so the ordering rules are testable without a transport.
package chat

import (
	"strings"

	"retrievex-cli/internal/api"
)

// Message is one transcript entry. Seq is non-zero only for locally echoed
// questions and their answers; history rows loaded from the server carry 0.
type Message struct {
	Role    string
	Content string
	Seq     int
}

// Session is the conversation state for one notebook. Questions are echoed
// into the log before their network call is issued, and every send gets a
// monotonically increasing sequence number; results are applied by that
// number, so overlapping sends cannot scramble attribution and stale or
// duplicate results are discarded.
type Session struct {
	NotebookID int

	messages    []Message
	sources     []api.Source
	nextSeq     int
	outstanding map[int]bool
	historySet  bool
}

func NewSession(notebookID int) *Session {
	return &Session{
		NotebookID:  notebookID,
		outstanding: map[int]bool{},
	}
}

// LoadHistory applies the server's stored chat log. Questions sent while the
// history read was in flight keep their place after the history rows. A
// second load is ignored; the log is append-only once seeded.
func (s *Session) LoadHistory(history []api.ChatMessage) {
	if s.historySet {
		return
	}
	s.historySet = true

	prefix := make([]Message, 0, len(history))
	for _, h := range history {
		prefix = append(prefix, Message{Role: h.Role, Content: h.Content})
	}
	s.messages = append(prefix, s.messages...)
}

// Send echoes the trimmed question into the log and reserves a sequence
// number for its answer. ok is false when the question is empty after
// trimming; nothing is appended in that case.
func (s *Session) Send(question string) (seq int, ok bool) {
	question = strings.TrimSpace(question)
	if question == "" {
		return 0, false
	}
	s.nextSeq++
	seq = s.nextSeq
	s.outstanding[seq] = true
	s.messages = append(s.messages, Message{Role: api.RoleUser, Content: question, Seq: seq})
	return seq, true
}

// ApplyAnswer appends the answer for seq and replaces the source list
// wholesale. Results for unknown or already-settled sequence numbers are
// discarded.
func (s *Session) ApplyAnswer(seq int, answer string, sources []api.Source) {
	if !s.outstanding[seq] {
		return
	}
	delete(s.outstanding, seq)
	s.messages = append(s.messages, Message{Role: api.RoleAssistant, Content: answer, Seq: seq})
	s.sources = append([]api.Source(nil), sources...)
}

// ApplyError settles seq with an assistant-role error message. The echoed
// question stays in the log and the source list is left as-is.
func (s *Session) ApplyError(seq int, msg string) {
	if !s.outstanding[seq] {
		return
	}
	delete(s.outstanding, seq)
	s.messages = append(s.messages, Message{Role: api.RoleAssistant, Content: "Error: " + msg, Seq: seq})
}

// Pending reports whether any send is still waiting for its result.
func (s *Session) Pending() bool { return len(s.outstanding) > 0 }

func (s *Session) Messages() []Message {
	return append([]Message(nil), s.messages...)
}

func (s *Session) Sources() []api.Source {
	return append([]api.Source(nil), s.sources...)
}
