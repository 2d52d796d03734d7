package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"remind_bot/internal/rule"
)

// ErrUsage marks command arguments that do not even split into a time
// expression and content.
var ErrUsage = errors.New("usage: 记录 [时间/周期] [内容]")

// SplitArgs separates the leading time expression of a 记录 command from
// the reminder content. Time expressions span one to three
// whitespace-separated fields (30分钟后 / 每天 08:00 / 每月 8号 08:00), so
// the longest parsable prefix wins; at least one field must remain as
// content.
func SplitArgs(args string, now time.Time) (expr, content string, err error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", "", ErrUsage
	}

	max := len(fields) - 1
	if max > 3 {
		max = 3
	}

	var firstErr error
	for n := max; n >= 1; n-- {
		candidate := strings.Join(fields[:n], " ")
		_, _, perr := rule.Parse(candidate, now)
		if perr == nil {
			return candidate, strings.Join(fields[n:], " "), nil
		}
		// A structural failure (bad clock, past time) means the prefix
		// matched a known pattern; remember the most specific one.
		if !errors.Is(perr, rule.ErrUnsupported) && firstErr == nil {
			firstErr = perr
		}
	}
	if firstErr != nil {
		return "", "", firstErr
	}
	return "", "", fmt.Errorf("%w: %q", rule.ErrUnsupported, fields[0])
}

// ParseDeleteArg interprets the argument of a 删除 command: either 全部
// or a numeric reminder ID.
func ParseDeleteArg(arg string) (all bool, id int64, err error) {
	if arg == "全部" {
		return true, 0, nil
	}
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || n < 1 {
		return false, 0, fmt.Errorf("invalid reminder ID %q", arg)
	}
	return false, n, nil
}
