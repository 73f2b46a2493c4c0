package logger

import (
	"bytes"
	"context"
	"testing"

	kit "enricher/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zerolog.Level{
		"trace":        zerolog.TraceLevel,
		"debug":        zerolog.DebugLevel,
		"INFO":         zerolog.InfoLevel,
		"warn":         zerolog.WarnLevel,
		"warning":      zerolog.WarnLevel,
		"error":        zerolog.ErrorLevel,
		"":             zerolog.DebugLevel,
		"  nonsense  ": zerolog.DebugLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// Init is once per process so every Init assertion lives in this test
func TestInit_NamedAndContextFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "info",
		Format:       "json",
		Service:      "enricher-test",
		Writer:       &buf,
		SampleEvery:  0,
		StaticFields: map[string]string{"build": "test"},
	})

	Get().Info().Msg("root-msg")
	Named("knowledge").Info().Msg("named-msg")

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithField(ctx, "batch_id", "b-9")
	ctx = WithField(ctx, "ignored", "")
	C(ctx).Info().Msg("ctx-msg")
	C(context.Background()).Debug().Msg("filtered")

	out := buf.String()
	for _, want := range []string{
		"root-msg", "named-msg", "ctx-msg",
		`"component":"knowledge"`, `"request_id":"req-123"`, `"batch_id":"b-9"`,
		`"service":"enricher-test"`, `"build":"test"`,
	} {
		kit.MustContain(t, out, want)
	}
	if bytes.Contains(buf.Bytes(), []byte("filtered")) || bytes.Contains(buf.Bytes(), []byte("ignored")) {
		t.Fatalf("debug line or blank field leaked: %s", out)
	}
}

func TestWithField_DoesNotAliasParent(t *testing.T) {
	t.Parallel()

	base := WithField(context.Background(), "a", "1")
	left := WithField(base, "b", "2")
	right := WithField(base, "c", "3")

	l, _ := left.Value(fieldsKey{}).([]field)
	r, _ := right.Value(fieldsKey{}).([]field)
	if len(l) != 2 || len(r) != 2 || l[1].k != "b" || r[1].k != "c" {
		t.Fatalf("sibling contexts share storage: %v %v", l, r)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "enricher" {
		t.Fatalf("FromEnv = %+v", opt)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv caller/sample = %+v", opt)
	}
}
