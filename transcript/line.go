// Package transcript parses and checks the firmware's console output.
package transcript

import (
	"regexp"
	"strconv"
	"strings"

	"hellofw/core"
)

// Kind classifies a console line
type Kind int

const (
	KindOther Kind = iota
	KindBlank
	KindBanner
	KindChipHeader
	KindChipField
	KindPattern
	KindLog
	KindGreeting
	KindRestart
	KindAbort
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindBanner:
		return "banner"
	case KindChipHeader:
		return "chip-header"
	case KindChipField:
		return "chip-field"
	case KindPattern:
		return "pattern"
	case KindLog:
		return "log"
	case KindGreeting:
		return "greeting"
	case KindRestart:
		return "restart"
	case KindAbort:
		return "abort"
	default:
		return "other"
	}
}

// Line is one parsed console line
type Line struct {
	Kind Kind
	Raw  string

	// KindChipField
	Field string
	Value string

	// KindPattern: index and value; KindGreeting: counter in Index
	Index int
	Num   int

	// KindLog
	Level  byte
	Millis uint32
	Tag    string
	Msg    string
}

var (
	logRE     = regexp.MustCompile(`^([EWIDV]) \((\d+)\) ([^:]+): (.*)$`)
	patternRE = regexp.MustCompile(`^` + core.PatternPrefix + `(-?\d+):(-?\d+)$`)
	fieldRE   = regexp.MustCompile(`^  (Model|Cores|Revision|Free Heap|Minimum Free Heap): (.*)$`)
	ansiRE    = regexp.MustCompile("\x1b\\[[0-9;]*m")
)

// Parse classifies one console line. banner is the expected banner text.
// Trailing CR and ANSI colour codes (ESP-IDF colours log lines) are stripped.
func Parse(raw, banner string) Line {
	s := ansiRE.ReplaceAllString(strings.TrimRight(raw, "\r\n"), "")
	l := Line{Kind: KindOther, Raw: s}

	switch {
	case strings.TrimSpace(s) == "":
		l.Kind = KindBlank
	case s == banner:
		l.Kind = KindBanner
	case s == "Chip Info:":
		l.Kind = KindChipHeader
	case s == core.RestartNotice:
		l.Kind = KindRestart
	case strings.HasPrefix(s, core.AbortPrefix):
		l.Kind = KindAbort
		l.Msg = strings.TrimPrefix(s, core.AbortPrefix)
	case strings.HasPrefix(s, core.GreetingPrefix):
		n, err := strconv.Atoi(strings.TrimPrefix(s, core.GreetingPrefix))
		if err == nil {
			l.Kind = KindGreeting
			l.Index = n
		}
	default:
		if m := patternRE.FindStringSubmatch(s); m != nil {
			l.Kind = KindPattern
			l.Index, _ = strconv.Atoi(m[1])
			l.Num, _ = strconv.Atoi(m[2])
		} else if m := fieldRE.FindStringSubmatch(s); m != nil {
			l.Kind = KindChipField
			l.Field = m[1]
			l.Value = m[2]
		} else if m := logRE.FindStringSubmatch(s); m != nil {
			ms, _ := strconv.ParseUint(m[2], 10, 32)
			l.Kind = KindLog
			l.Level = m[1][0]
			l.Millis = uint32(ms)
			l.Tag = m[3]
			l.Msg = m[4]
		}
	}
	return l
}

// heapBytes parses "<n> bytes"
func heapBytes(v string) (uint32, bool) {
	n, err := strconv.ParseUint(strings.TrimSuffix(v, " bytes"), 10, 32)
	if err != nil || !strings.HasSuffix(v, " bytes") {
		return 0, false
	}
	return uint32(n), true
}
