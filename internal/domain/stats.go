package domain

// StatsQuery is a windowed analytics request for one chat.
//
// Chat is an alias or public id and is required. From/To bound the range of
// (offset-shifted) calendar days and must be set together. User narrows all
// aggregates to one user's public id. Weekday (0 = Monday) keeps only days
// falling on that weekday.
type StatsQuery struct {
	Chat    string
	User    string
	From    *int64
	To      *int64
	Offset  int
	Weekday *int
}

// HasRange reports whether a day range was requested.
func (q StatsQuery) HasRange() bool { return q.From != nil && q.To != nil }

// LeaderboardEntry is one row of the per-user message ranking.
type LeaderboardEntry struct {
	UserID   string `json:"user_id"  example:"a8Xk2Lq0"`
	Name     string `json:"name"     example:"Ada Lovelace"`
	Messages int64  `json:"messages" example:"42"`
}

// StatsResult is the response envelope of a stats query.
//
// DailyUsers and DailyMessages are aligned series: entry i describes day
// StartDay + i*SkipDay. FirstHour/LastHour give the absolute-hour range stored
// for the chat regardless of the requested filters (nil when empty).
type StatsResult struct {
	ChatID            string             `json:"chat_id"   example:"Q3vT9bZx"`
	ChatName          string             `json:"chat_name" example:"Go Developers"`
	FirstHour         *int64             `json:"first_hour"`
	LastHour          *int64             `json:"last_hour"`
	StartDay          int64              `json:"start_day"`
	SkipDay           int64              `json:"skip_day"`
	DailyUsers        []int64            `json:"daily_users"`
	DailyMessages     []int64            `json:"daily_messages"`
	MessagesByHour    [24]int64          `json:"messages_by_hour"`
	MessagesByWeekday [7]int64           `json:"messages_by_weekday"`
	Leaderboard       []LeaderboardEntry `json:"leaderboard"`
}
