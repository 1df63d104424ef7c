package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "blog.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger.WithContext(context.Background()).Info("noop")
}

func TestPostsLoggerAttachesModuleField(t *testing.T) {
	recorder := &recordingLogger{}
	provider := &stubProvider{logger: recorder}

	PostsLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != postsModule {
		t.Fatalf("expected provider to be asked for %q, got %v", postsModule, provider.requested)
	}
	if len(recorder.fields) != 1 || recorder.fields[0]["module"] != postsModule {
		t.Fatalf("expected module field, got %#v", recorder.fields)
	}
}

func TestWithPostContextSkipsBlankValues(t *testing.T) {
	recorder := &recordingLogger{}

	WithPostContext(recorder, "  ", "hello-world")

	if len(recorder.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(recorder.fields))
	}
	got := recorder.fields[0]
	if _, ok := got[fieldPostPath]; ok {
		t.Fatalf("expected blank path to be skipped, got %#v", got)
	}
	if got[fieldPostSlug] != "hello-world" {
		t.Fatalf("expected slug field, got %#v", got)
	}
}

func TestContextWithFieldsMerges(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"request_id": "a"})
	ctx = ContextWithFields(ctx, map[string]any{"slug": "b"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "a" || fields["slug"] != "b" {
		t.Fatalf("expected merged fields, got %#v", fields)
	}

	fields["request_id"] = "mutated"
	if ContextFields(ctx)["request_id"] != "a" {
		t.Fatalf("expected ContextFields to return a copy")
	}
}
