package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const maxFeedLine = 1 << 20

// feedCharsets maps the FeedCharset setting to a decoder. UTF-8 input is
// passed through untouched.
var feedCharsets = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
}

func feedReader(r io.Reader, charset string) (io.Reader, error) {
	cs := strings.ToLower(strings.TrimSpace(charset))
	if cs == "" || cs == "utf-8" || cs == "utf8" {
		return r, nil
	}
	enc, ok := feedCharsets[cs]
	if !ok {
		return nil, fmt.Errorf("feed: unknown charset %q", charset)
	}
	return enc.NewDecoder().Reader(r), nil
}

// runFeed reads newline-delimited JSON events from r and hands them to s
// until r is exhausted or ctx is cancelled. Malformed lines are skipped.
func runFeed(ctx context.Context, r io.Reader, s *session) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxFeedLine)
	line := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := dispatchFeedLine(s, text); err != nil {
			logWarn("feed line %d: %v", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("feed: %w", err)
	}
	return nil
}

func dispatchFeedLine(s *session, text string) error {
	if !gjson.Valid(text) {
		return errors.New("invalid json")
	}
	ev := gjson.Parse(text)
	switch typ := ev.Get("type").String(); typ {
	case "login":
		profile := ev.Get("profile").String()
		if profile == "" {
			profile = ev.Get("player").String()
		}
		if profile == "" {
			return errors.New("login without profile")
		}
		s.onLogin(profile, ev.Get("player").String())
	case "tick":
		s.onGameTick(ev.Get("dialog").String())
	case "chat":
		s.onChatMessage(strings.ToUpper(ev.Get("chatType").String()), ev.Get("message").String())
	case "stat":
		s.onStatChanged(ev.Get("skill").String(), int(ev.Get("xp").Int()), int(ev.Get("level").Int()))
	case "command":
		var args []string
		for _, a := range ev.Get("args").Array() {
			args = append(args, a.String())
		}
		s.onCommand(ev.Get("command").String(), args)
	case "":
		return errors.New("missing type")
	default:
		logDebug("feed: ignoring %q event", typ)
	}
	return nil
}
