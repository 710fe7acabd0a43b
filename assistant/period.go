package assistant

import (
	"regexp"
	"strings"
	"time"

	"cashlog/models"
	"cashlog/repository"
)

// PeriodKind 时间范围类型
type PeriodKind int

const (
	PeriodNone PeriodKind = iota
	PeriodDay
	PeriodRange
)

// Period 从文本中识别出的时间条件
// "between X and Y" 的结束日期包含在内，"this month" 的结束日期为下月 1 日且不包含，
// 两种行为都保留，由 EndInclusive 区分。
type Period struct {
	Kind         PeriodKind
	Day          time.Time
	Start        time.Time
	End          time.Time
	EndInclusive bool
}

// Filter 转换为消费记录筛选条件
func (p Period) Filter() repository.ExpenseFilter {
	var f repository.ExpenseFilter
	switch p.Kind {
	case PeriodDay:
		d := p.Day
		f.Day = &d
	case PeriodRange:
		start, end := p.Start, p.End
		f.From = &start
		f.To = &end
		f.ToExclusive = !p.EndInclusive
	}
	return f
}

// Describe 回复中使用的时间描述
func (p Period) Describe(text string) string {
	switch p.Kind {
	case PeriodDay:
		return "on " + models.FormatDate(p.Day)
	case PeriodRange:
		return "from " + models.FormatDate(p.Start) + " to " + models.FormatDate(p.End)
	}
	if containsAny(text, "between", "entre", "month", "mois") {
		return "for the requested period"
	}
	return "across all expenses"
}

type periodMatcher func(text string, today time.Time) (Period, bool)

// 按顺序尝试，第一个命中的生效
var periodMatchers = []periodMatcher{
	matchToday,
	matchThisMonth,
	matchBetween,
	matchExactDate,
}

// ParsePeriod 识别时间条件，text 须已转为小写
// 日期解析失败只会导致不命中
func ParsePeriod(text string, today time.Time) Period {
	today = models.Day(today)
	for _, match := range periodMatchers {
		if p, ok := match(text, today); ok {
			return p
		}
	}
	return Period{Kind: PeriodNone}
}

func matchToday(text string, today time.Time) (Period, bool) {
	if !containsAny(text, "today", "aujourd") {
		return Period{}, false
	}
	return Period{Kind: PeriodDay, Day: today}, true
}

func matchThisMonth(text string, today time.Time) (Period, bool) {
	if !containsAny(text, "this month", "current month", "ce mois", "mois en cours", "mois courant") {
		return Period{}, false
	}
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return Period{Kind: PeriodRange, Start: start, End: start.AddDate(0, 1, 0)}, true
}

// 英文和法文两组关键词
var betweenWords = [][2]string{
	{"between", "and"},
	{"entre", "et"},
}

func matchBetween(text string, _ time.Time) (Period, bool) {
	for _, words := range betweenWords {
		if !strings.Contains(text, words[0]) || !strings.Contains(text, words[1]) {
			continue
		}
		_, rest, _ := strings.Cut(text, words[0])
		left, right, found := strings.Cut(strings.TrimSpace(rest), words[1])
		if !found {
			continue
		}
		start, err := parseDateToken(strings.TrimSpace(left))
		if err != nil {
			continue
		}
		end, err := parseDateToken(strings.TrimSpace(right))
		if err != nil {
			continue
		}
		return Period{Kind: PeriodRange, Start: start, End: end, EndInclusive: true}, true
	}
	return Period{}, false
}

var (
	datePrefixes = []string{"le ", "on "}
	dateToken    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

func matchExactDate(text string, _ time.Time) (Period, bool) {
	for _, prefix := range datePrefixes {
		idx := strings.Index(text, prefix)
		if idx < 0 {
			continue
		}
		if d, err := parseDateToken(text[idx+len(prefix):]); err == nil {
			return Period{Kind: PeriodDay, Day: d}, true
		}
	}
	if token := dateToken.FindString(text); token != "" {
		if d, err := models.ParseDate(token); err == nil {
			return Period{Kind: PeriodDay, Day: d}, true
		}
	}
	return Period{}, false
}

// parseDateToken 解析开头的 10 个字符
func parseDateToken(s string) (time.Time, error) {
	if len(s) > len(models.DateLayout) {
		s = s[:len(models.DateLayout)]
	}
	return models.ParseDate(s)
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
