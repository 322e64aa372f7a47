package timetext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseError reports free-text or datetime input that could not be understood.
// It is surfaced verbatim to the caller.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return e.Msg
}

func parseErrorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// HourMinute is a wall-clock time without a date.
type HourMinute struct {
	Hour   int
	Minute int
}

// ParsedRange is the outcome of scanning free text for an HH:MM range.
// The remainder of the text after the matched range becomes the title.
type ParsedRange struct {
	Title string
	Start HourMinute
	End   HourMinute
}

// DefaultTitle is used when the text carries a time range but no usable title.
const DefaultTitle = "Untitled Event"

// rangePattern accepts an ASCII hyphen or tilde as the separator, plus the
// CJK characters 到/至 ("to").
var rangePattern = regexp.MustCompile(`(\d{1,2}:\d{2})\s*[-~到至]\s*(\d{1,2}:\d{2})`)

// titleLeadCutset is punctuation stripped from the front of a title,
// covering both ASCII and full-width CJK forms.
const titleLeadCutset = "，,。.!?？：:;； "

// titleSuffixes are filler words meaning "event/schedule/matter" stripped once
// from the end of a title. Longest first so 的事项 wins over 事项.
var titleSuffixes = []string{"的事项", "事项", "事件", "日程", "安排"}

// ParseRange extracts a start/end clock-time pair and a title from free text
// such as "17:30-19:00跑步". It fails with a ParseError when no range is
// present or a matched time is not a valid wall-clock time.
func ParseRange(text string) (ParsedRange, error) {
	loc := rangePattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return ParsedRange{}, parseErrorf("could not parse a time range from text; use a format like '17:30-19:00跑步'")
	}

	start, err := parseHourMinute(text[loc[2]:loc[3]])
	if err != nil {
		return ParsedRange{}, err
	}
	end, err := parseHourMinute(text[loc[4]:loc[5]])
	if err != nil {
		return ParsedRange{}, err
	}

	title := NormalizeTitle(text[loc[1]:])
	if title == "" {
		title = DefaultTitle
	}

	return ParsedRange{Title: title, Start: start, End: end}, nil
}

// NormalizeTitle trims whitespace and leading punctuation, then strips one
// trailing filler suffix if present.
func NormalizeTitle(title string) string {
	normalized := strings.TrimSpace(title)
	normalized = strings.TrimLeft(normalized, titleLeadCutset)
	for _, suffix := range titleSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = strings.TrimSpace(strings.TrimSuffix(normalized, suffix))
			break
		}
	}
	return normalized
}

func parseHourMinute(s string) (HourMinute, error) {
	parts := strings.SplitN(s, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return HourMinute{}, parseErrorf("invalid clock time %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return HourMinute{}, parseErrorf("invalid clock time %q", s)
	}
	if hour > 23 || minute > 59 {
		return HourMinute{}, parseErrorf("invalid clock time %q", s)
	}
	return HourMinute{Hour: hour, Minute: minute}, nil
}
