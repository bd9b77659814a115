package state

import (
	"context"
	"log"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dxh/config"
	"dxh/styles"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if env.StyleMap.Len() != 0 {
		t.Errorf("new environment has %d style mappings", env.StyleMap.Len())
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestEnvFromContext_Shared(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	EnvFromContext(ctx).StyleMap = styles.MustParseStyleMap("p => p")
	EnvFromContext(ctx).Cfg = &config.Config{Version: 1}

	env := EnvFromContext(ctx)
	if env.StyleMap.Len() != 1 || env.Cfg == nil {
		t.Errorf("environment changes are not visible: %+v", env)
	}
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now().Add(-time.Second)}
	if got := env.Uptime(); got < time.Second {
		t.Errorf("Uptime() = %v, expected at least 1s", got)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	env := &LocalEnv{Log: zap.New(core)}

	env.RedirectStdLog()
	if env.restoreStdLog == nil {
		t.Fatal("Expected restoreStdLog to be set")
	}
	log.Print("from standard logger")
	env.RestoreStdLog()
	if env.restoreStdLog != nil {
		t.Error("Expected restoreStdLog to be cleared")
	}

	if got := logs.FilterMessage("from standard logger").Len(); got != 1 {
		t.Errorf("captured %d redirected messages, want 1", got)
	}
}

func TestLocalEnv_NilLogger(t *testing.T) {
	env := &LocalEnv{}
	env.RedirectStdLog()
	if env.restoreStdLog != nil {
		t.Error("Expected restoreStdLog to remain nil")
	}
	// should not panic
	env.RestoreStdLog()
}
