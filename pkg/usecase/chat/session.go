package chat

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/m-mizutani/philosophia/pkg/interfaces"
	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/m-mizutani/philosophia/pkg/utils/logging"
)

// FallbackReply replaces the assistant turn when the reply stream fails
const FallbackReply = "I seem to have fallen into thought too deep for words and cannot answer right now. (The API key or the network may be unavailable.)"

type State int

const (
	StateIdle State = iota
	StateAwaitingReply
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	default:
		return "unknown"
	}
}

// Listener is notified with the latest assistant turn every time its content changes
type Listener func(turn model.ChatTurn)

// Session is the ephemeral transcript of one opened profile. It is discarded when the selection changes
// and is never stored in the profile.
type Session struct {
	streamer  interfaces.ChatStreamer
	profileID model.ProfileID
	persona   string
	listener  Listener

	mu      sync.Mutex
	turns   []model.ChatTurn
	state   State
	retired bool
}

type Option func(*Session)

// WithListener registers a callback for incremental rendering of the reply
func WithListener(f Listener) Option {
	return func(s *Session) {
		s.listener = f
	}
}

// New creates a chat session role-playing persona for the given profile
func New(streamer interfaces.ChatStreamer, profileID model.ProfileID, persona string, opts ...Option) *Session {
	s := &Session{
		streamer:  streamer,
		profileID: profileID,
		persona:   persona,
		state:     StateIdle,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Session) ProfileID() model.ProfileID { return s.profileID }
func (s *Session) Persona() string { return s.persona }

// State returns whether a reply is in flight
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns a copy of the turns in order
func (s *Session) Transcript() []model.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.turns)
}

// Retire discards the session. Fragments of an in-flight reply are dropped from now on.
func (s *Session) Retire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retired = true
}

func (s *Session) Retired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retired
}

// Send appends the user turn and an empty assistant placeholder, then fills the placeholder
// from the reply stream until it ends. It returns false without any change when message is blank,
// a reply is already in flight or the session has been retired.
func (s *Session) Send(ctx context.Context, message string) bool {
	if strings.TrimSpace(message) == "" {
		return false
	}

	s.mu.Lock()
	if s.retired || s.state == StateAwaitingReply {
		s.mu.Unlock()
		return false
	}
	prior := slices.Clone(s.turns)
	s.turns = append(s.turns,
		model.ChatTurn{Role: model.RoleUser, Content: message},
		model.ChatTurn{Role: model.RoleAssistant, Content: ""},
	)
	placeholder := len(s.turns) - 1
	s.state = StateAwaitingReply
	s.mu.Unlock()

	logger := logging.From(ctx).With("profile_id", s.profileID)

	var (
		reply  strings.Builder
		failed bool
	)
	for fragment, err := range s.streamer.StreamChat(ctx, s.persona, prior, message) {
		if err != nil {
			logger.Error("chat stream failed", "error", err)
			failed = true
			break
		}

		reply.WriteString(fragment)
		if !s.apply(placeholder, reply.String()) {
			logger.Debug("dropping fragments of retired chat session")
			break
		}
	}

	s.finish(placeholder, failed)
	return true
}

// apply overwrites the placeholder with the accumulated reply. It reports false once the session is retired.
func (s *Session) apply(idx int, content string) bool {
	s.mu.Lock()
	if s.retired {
		s.mu.Unlock()
		return false
	}
	s.turns[idx].Content = content
	turn := s.turns[idx]
	s.mu.Unlock()

	s.notify(turn)
	return true
}

func (s *Session) finish(idx int, failed bool) {
	s.mu.Lock()
	s.state = StateIdle
	if s.retired || !failed {
		s.mu.Unlock()
		return
	}
	s.turns[idx].Content = FallbackReply
	turn := s.turns[idx]
	s.mu.Unlock()

	s.notify(turn)
}

func (s *Session) notify(turn model.ChatTurn) {
	if s.listener != nil {
		s.listener(turn)
	}
}
