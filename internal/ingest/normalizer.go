// Package ingest replays append-only provider event logs into the counter
// store. A Normalizer turns one log line into zero or more domain events, and
// a Replayer drives the checkpointed batch protocol over a Sink.
package ingest

import (
	"fmt"

	"github.com/tbourn/go-chat-stats/internal/config"
	"github.com/tbourn/go-chat-stats/internal/domain"
)

// Normalizer decodes one raw log line (without the trailing newline). A nil
// slice with a nil error means the line carries nothing countable.
type Normalizer interface {
	Normalize(line []byte) ([]domain.Event, error)
}

// ParseError reports a line that could not be decoded. The replayer logs it,
// counts it and moves on.
type ParseError struct {
	Provider string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse line: %v", e.Provider, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewNormalizer returns the normalizer for a configured stream.
func NewNormalizer(s config.Stream) (Normalizer, error) {
	switch s.Provider {
	case config.ProviderTelegram:
		return TelegramNormalizer{}, nil
	case config.ProviderMatrix:
		return MatrixNormalizer{Chat: domain.ChatInfo{
			ExtID: domain.AggregatorChatExtID,
			Name:  s.ChatName,
			Alias: s.ChatAlias,
		}}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", s.Provider)
	}
}
