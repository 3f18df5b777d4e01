package repo

import (
	"strings"

	"gorm.io/gorm"
)

// Predicate is one SQL condition with its bind arguments.
type Predicate struct {
	SQL  string
	Args []any
}

// Predicates is a conjunction of conditions.
type Predicates []Predicate

// And appends a condition.
func (p Predicates) And(sql string, args ...any) Predicates {
	return append(p, Predicate{SQL: sql, Args: args})
}

// Scope applies every condition as a WHERE clause.
func (p Predicates) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, c := range p {
			db = db.Where(c.SQL, c.Args...)
		}
		return db
	}
}

// SQL renders the conjunction with its flattened arguments. An empty set
// renders as "1 = 1".
func (p Predicates) SQL() (string, []any) {
	if len(p) == 0 {
		return "1 = 1", nil
	}
	parts := make([]string, 0, len(p))
	var args []any
	for _, c := range p {
		parts = append(parts, "("+c.SQL+")")
		args = append(args, c.Args...)
	}
	return strings.Join(parts, " AND "), args
}

// Bucket expressions over message_counters.hour under a UTC offset.
// The +24 bias keeps the dividend positive for hour >= 0 and offset >= -12,
// so integer division floors on every engine. Writers never store a negative
// hour: CounterStore rejects pre-epoch timestamps.
const (
	shiftedDaySQL     = "((message_counters.hour + ? + 24) / 24 - 1)"
	shiftedHourSQL    = "((message_counters.hour + ? + 24) % 24)"
	shiftedWeekdaySQL = "((" + shiftedDaySQL + " + 3) % 7)"
)

// StatsFilter narrows the message counters of one chat. All bounds are in
// offset-shifted calendar days. Counter hours are assumed non-negative.
type StatsFilter struct {
	ChatID  int64
	UserID  *int64
	Offset  int
	FromDay *int64
	ToDay   *int64
	Weekday *int
}

// Predicates translates the filter into conditions on message_counters.
func (f StatsFilter) Predicates() Predicates {
	p := Predicates{}.And("message_counters.chat_id = ?", f.ChatID)
	if f.UserID != nil {
		p = p.And("message_counters.user_id = ?", *f.UserID)
	}
	if f.FromDay != nil {
		p = p.And(shiftedDaySQL+" >= ?", f.Offset, *f.FromDay)
	}
	if f.ToDay != nil {
		p = p.And(shiftedDaySQL+" <= ?", f.Offset, *f.ToDay)
	}
	if f.Weekday != nil {
		p = p.And(shiftedWeekdaySQL+" = ?", f.Offset, *f.Weekday)
	}
	return p
}
