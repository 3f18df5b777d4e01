package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported stream providers.
const (
	ProviderTelegram = "telegram"
	ProviderMatrix   = "matrix"
)

// StreamsFile is the on-disk list of ingestion streams.
type StreamsFile struct {
	Streams []Stream `yaml:"streams"`
}

// Stream is one append-only event log replayed into the store. Name keys the
// checkpoint, so renaming a stream replays it from the start.
//
// ChatName and ChatAlias only apply to providers without native chats
// (matrix); their events are counted in the single aggregator chat, so every
// matrix stream must name it the same way.
type Stream struct {
	Name      string `yaml:"name"`
	Provider  string `yaml:"provider"`
	Path      string `yaml:"path"`
	ChatName  string `yaml:"chat_name"`
	ChatAlias string `yaml:"chat_alias"`
}

// LoadStreams reads and validates a streams file. Relative log paths are
// resolved against the directory of the file.
func LoadStreams(path string) ([]Stream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading streams file: %w", err)
	}

	var f StreamsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing streams file: %w", err)
	}

	base := filepath.Dir(path)
	seen := make(map[string]struct{}, len(f.Streams))
	var aggregator *Stream
	for i := range f.Streams {
		s := &f.Streams[i]
		s.Name = strings.TrimSpace(s.Name)
		s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
		if s.Name == "" {
			return nil, fmt.Errorf("stream entry %d: name is required", i)
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("stream %q: duplicate name", s.Name)
		}
		seen[s.Name] = struct{}{}

		switch s.Provider {
		case ProviderTelegram:
		case ProviderMatrix:
			s.ChatName = strings.TrimSpace(s.ChatName)
			s.ChatAlias = strings.TrimSpace(s.ChatAlias)
			if s.ChatName == "" {
				s.ChatName = "Matrix"
			}
			if aggregator == nil {
				aggregator = s
			} else if s.ChatName != aggregator.ChatName || s.ChatAlias != aggregator.ChatAlias {
				return nil, fmt.Errorf("stream %q: chat_name/chat_alias %q/%q differ from stream %q (%q/%q); matrix streams share one chat",
					s.Name, s.ChatName, s.ChatAlias, aggregator.Name, aggregator.ChatName, aggregator.ChatAlias)
			}
		default:
			return nil, fmt.Errorf("stream %q: unknown provider %q", s.Name, s.Provider)
		}

		if strings.TrimSpace(s.Path) == "" {
			return nil, fmt.Errorf("stream %q: path is required", s.Name)
		}
		if !filepath.IsAbs(s.Path) {
			s.Path = filepath.Join(base, s.Path)
		}
	}
	return f.Streams, nil
}
