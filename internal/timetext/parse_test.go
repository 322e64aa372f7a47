package timetext

import (
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTitle string
		wantStart HourMinute
		wantEnd   HourMinute
	}{
		{
			name:      "hyphen separator with CJK title",
			text:      "17:30-19:00跑步",
			wantTitle: "跑步",
			wantStart: HourMinute{17, 30},
			wantEnd:   HourMinute{19, 0},
		},
		{
			name:      "tilde separator with suffix stripped",
			text:      "9:00~10:30的事项开会",
			wantTitle: "开会",
			wantStart: HourMinute{9, 0},
			wantEnd:   HourMinute{10, 30},
		},
		{
			name:      "CJK dao separator",
			text:      "14:00到15:00 review",
			wantTitle: "review",
			wantStart: HourMinute{14, 0},
			wantEnd:   HourMinute{15, 0},
		},
		{
			name:      "CJK zhi separator",
			text:      "8:15至9:45 standup",
			wantTitle: "standup",
			wantStart: HourMinute{8, 15},
			wantEnd:   HourMinute{9, 45},
		},
		{
			name:      "leading punctuation stripped from title",
			text:      "10:00-11:00，买菜",
			wantTitle: "买菜",
			wantStart: HourMinute{10, 0},
			wantEnd:   HourMinute{11, 0},
		},
		{
			name:      "trailing schedule suffix stripped",
			text:      "20:00-21:00锻炼安排",
			wantTitle: "锻炼",
			wantStart: HourMinute{20, 0},
			wantEnd:   HourMinute{21, 0},
		},
		{
			name:      "empty title defaults",
			text:      "17:30-19:00",
			wantTitle: DefaultTitle,
			wantStart: HourMinute{17, 30},
			wantEnd:   HourMinute{19, 0},
		},
		{
			name:      "whitespace around separator",
			text:      "7:00 - 8:00 run",
			wantTitle: "run",
			wantStart: HourMinute{7, 0},
			wantEnd:   HourMinute{8, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRange(tt.text)
			if err != nil {
				t.Fatalf("ParseRange(%q) returned error: %v", tt.text, err)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("title = %q, expected %q", got.Title, tt.wantTitle)
			}
			if got.Start != tt.wantStart {
				t.Errorf("start = %v, expected %v", got.Start, tt.wantStart)
			}
			if got.End != tt.wantEnd {
				t.Errorf("end = %v, expected %v", got.End, tt.wantEnd)
			}
		})
	}
}

func TestParseRange_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no time range", text: "no time here"},
		{name: "single time only", text: "meet at 17:30"},
		{name: "hour out of range", text: "25:00-26:00 nope"},
		{name: "minute out of range", text: "10:75-11:00 nope"},
		{name: "empty input", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRange(tt.text)
			if err == nil {
				t.Fatalf("ParseRange(%q) expected error, got none", tt.text)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("expected *ParseError, got %T", err)
			}
		})
	}
}

func TestNormalizeTitle_SuffixStrippedOnce(t *testing.T) {
	// Only one suffix is removed even when the remainder still ends in one.
	got := NormalizeTitle("开会事项事项")
	if got != "开会事项" {
		t.Errorf("NormalizeTitle = %q, expected %q", got, "开会事项")
	}
}
