package repo

import (
	"strings"
	"testing"
)

func TestPredicates_SQL(t *testing.T) {
	sql, args := Predicates{}.SQL()
	if sql != "1 = 1" || args != nil {
		t.Fatalf("empty predicates = %q %v", sql, args)
	}

	p := Predicates{}.And("a = ?", 1).And("b BETWEEN ? AND ?", 2, 3)
	sql, args = p.SQL()
	if sql != "(a = ?) AND (b BETWEEN ? AND ?)" {
		t.Fatalf("sql = %q", sql)
	}
	if len(args) != 3 || args[0] != 1 || args[2] != 3 {
		t.Fatalf("args = %v", args)
	}
}

func TestStatsFilter_Predicates(t *testing.T) {
	f := StatsFilter{ChatID: 7, Offset: -3}
	if got := len(f.Predicates()); got != 1 {
		t.Fatalf("chat-only filter should have 1 predicate, got %d", got)
	}

	f.UserID = i64(9)
	f.FromDay = i64(10)
	f.ToDay = i64(20)
	f.Weekday = iptr(4)
	p := f.Predicates()
	if len(p) != 5 {
		t.Fatalf("expected 5 predicates, got %d", len(p))
	}
	sql, args := p.SQL()
	if strings.Count(sql, "?") != len(args) {
		t.Fatalf("placeholder/arg mismatch: %q %v", sql, args)
	}
	// Every shifted-day condition binds the offset first.
	if p[2].Args[0] != -3 || p[2].Args[1] != int64(10) {
		t.Fatalf("from predicate args = %v", p[2].Args)
	}
}
