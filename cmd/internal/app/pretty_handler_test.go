package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestStripANSI(t *testing.T) {
	t.Parallel()

	in := ansiBlue + "INFO" + ansiReset + " plain " + ansiRed + "ERR" + ansiReset
	got := stripANSI(in)
	want := "INFO plain ERR"
	if got != want {
		t.Fatalf("stripANSI()=%q want=%q", got, want)
	}
}

func TestPrettyHandler_PlainOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false))

	log.Info("http.request",
		"method", "POST",
		"path", "/login",
		"status", 200,
		"status_class", "2xx",
		"duration_ms", int64(3),
		"note", "two words",
	)

	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected newline-terminated line, got %q", out)
	}
	for _, want := range []string{
		"lvl=[INFO]",
		"msg=http.request",
		"method=POST",
		"path=/login",
		"status=200",
		"class=2xx",
		"duration=3ms",
		`note="two words"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI codes with color off:\n%q", out)
	}
}

func TestPrettyHandler_ColorsStripToPlain(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, true))

	log.Error("server.fail", "status", 503)

	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected ANSI codes with color on:\n%q", out)
	}

	plain := stripANSI(out)
	if !strings.Contains(plain, "lvl=[ERROR]") || !strings.Contains(plain, "status=503") {
		t.Fatalf("stripped output unexpected:\n%s", plain)
	}
}

func TestPrettyHandler_LevelGate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}, false))

	log.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info should be suppressed at warn level: %q", buf.String())
	}

	log.Warn("loud")
	if !strings.Contains(buf.String(), "msg=loud") {
		t.Fatalf("warn should be emitted: %q", buf.String())
	}
}

func TestPrettyHandler_GroupsAndWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false))

	log := base.With("request_id", "01jx").WithGroup("db").With("schema", "mindremember")
	log.Info("query")

	out := buf.String()
	if !strings.Contains(out, "request_id=01jx") {
		t.Fatalf("missing pre-set attr:\n%s", out)
	}
	if !strings.Contains(out, "db.schema=mindremember") {
		t.Fatalf("missing group-qualified attr:\n%s", out)
	}
}

func TestQuoteIfNeeded(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "", want: `""`},
		{in: "plain", want: "plain"},
		{in: "two words", want: `"two words"`},
		{in: `has"quote`, want: `"has\"quote"`},
		{in: "k=v", want: `"k=v"`},
	}

	for _, tc := range cases {
		if got := quoteIfNeeded(tc.in); got != tc.want {
			t.Fatalf("quoteIfNeeded(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}
