package log

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        LevelInfo,
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"off":     LevelSilent,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLoggerFieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core), LevelInfo)

	l.Log(LevelDebug, "dropped")
	l.Log(LevelInfo, "kept", String("body", "player"), Int("pairs", 3), Float64("depth", 8), Error(errors.New("boom")))
	require.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	require.Equal(t, "kept", entry.Message)
	fields := entry.ContextMap()
	require.Equal(t, "player", fields["body"])
	require.EqualValues(t, 3, fields["pairs"])
	require.Equal(t, 8.0, fields["depth"])
	require.Equal(t, "boom", fields["error"])

	l.SetLevel(LevelDebug)
	require.Equal(t, LevelDebug, l.GetLevel())
	l.Log(LevelDebug, "now kept")
	require.Equal(t, 2, logs.Len())

	child := l.With(Uint64("tick", 7))
	child.Info("child")
	require.EqualValues(t, 7, logs.All()[2].ContextMap()["tick"])
}

func TestSilentLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core), LevelSilent)
	l.Log(LevelError, "nothing")
	require.Zero(t, logs.Len())
	require.Equal(t, LevelSilent, l.GetLevel())

	require.NotPanics(t, func() { Nop().Error("ignored") })
}

func TestProvideWhileBuildingConcurrently(t *testing.T) {
	const n = 8
	var wg sync.WaitGroup
	provided := make([]*Logger, n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			New(LevelSilent)
		}()
		go func() {
			defer wg.Done()
			provided[i] = Provide()
		}()
	}
	wg.Wait()

	first := Provide()
	require.NotNil(t, first)
	require.Same(t, first, Provide(), "the process-wide logger is fixed once built")
	for _, l := range provided {
		require.NotNil(t, l)
	}
}
