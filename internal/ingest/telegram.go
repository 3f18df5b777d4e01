package ingest

import (
	"bytes"
	"encoding/json"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tbourn/go-chat-stats/internal/domain"
)

// TelegramNormalizer decodes Bot API Update objects, one JSON document per
// line. Only messages posted in groups and supergroups are counted; private
// chats, channels and non-message updates are skipped.
type TelegramNormalizer struct{}

// Normalize implements Normalizer.
func (TelegramNormalizer) Normalize(line []byte) ([]domain.Event, error) {
	if len(bytes.TrimSpace(line)) == 0 {
		return nil, nil
	}
	var upd tgbotapi.Update
	if err := json.Unmarshal(line, &upd); err != nil {
		return nil, &ParseError{Provider: "telegram", Err: err}
	}

	msg := upd.Message
	if msg == nil || msg.Chat == nil || msg.From == nil {
		return nil, nil
	}
	chat, ok := telegramChat(msg.Chat)
	if !ok {
		return nil, nil
	}

	if msg.Date < 0 {
		return nil, &ParseError{Provider: "telegram", Err: domain.ErrNegativeTimestamp}
	}

	sender := telegramUser(msg.From)
	events := []domain.Event{domain.MessageEvent{
		Chat:      chat,
		User:      sender,
		Timestamp: int64(msg.Date),
	}}
	if reply := msg.ReplyToMessage; reply != nil && reply.From != nil {
		events = append(events, domain.ReplyEvent{
			Chat:    chat,
			Replier: sender,
			Author:  telegramUser(reply.From),
		})
	}
	return events, nil
}

func telegramChat(c *tgbotapi.Chat) (domain.ChatInfo, bool) {
	switch {
	case c.IsGroup():
		return domain.ChatInfo{ExtID: c.ID, Name: c.Title}, true
	case c.IsSuperGroup():
		info := domain.ChatInfo{ExtID: c.ID, Name: c.Title}
		if c.UserName != "" {
			info.Alias = "@" + c.UserName
		}
		return info, true
	default:
		return domain.ChatInfo{}, false
	}
}

func telegramUser(u *tgbotapi.User) domain.UserInfo {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	return domain.UserInfo{ExtID: u.ID, Name: name}
}
