package ingest

import (
	"bytes"
	"encoding/json"

	"github.com/tbourn/go-chat-stats/internal/domain"
)

// MatrixNormalizer decodes /messages responses, one JSON document per line.
// Matrix has no numeric ids, so every event lands in Chat and users are keyed
// by their sender id.
type MatrixNormalizer struct {
	Chat domain.ChatInfo
}

type matrixPage struct {
	Chunk []matrixEvent `json:"chunk"`
}

type matrixEvent struct {
	OriginServerTS *int64 `json:"origin_server_ts"`
	Sender         string `json:"sender"`
}

// Normalize implements Normalizer. Chunk entries without a sender or a
// non-negative timestamp are ignored.
func (n MatrixNormalizer) Normalize(line []byte) ([]domain.Event, error) {
	if len(bytes.TrimSpace(line)) == 0 {
		return nil, nil
	}
	var page matrixPage
	if err := json.Unmarshal(line, &page); err != nil {
		return nil, &ParseError{Provider: "matrix", Err: err}
	}

	var events []domain.Event
	for _, ev := range page.Chunk {
		if ev.OriginServerTS == nil || *ev.OriginServerTS < 0 || ev.Sender == "" {
			continue
		}
		events = append(events, domain.MessageEvent{
			Chat:      n.Chat,
			User:      domain.UserInfo{Handle: ev.Sender, Name: ev.Sender},
			Timestamp: domain.FloorDiv(*ev.OriginServerTS, 1000),
		})
	}
	return events, nil
}
