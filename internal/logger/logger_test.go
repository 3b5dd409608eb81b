package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]interface{}{
		"plan_id", "p-1",
		"jwt_secret", "hunter2",
		"Authorization", "Bearer abc",
		"traineeSignature", "A. Trainee",
		"dangling",
	})
	assert.Equal(t, []interface{}{
		"plan_id", "p-1",
		"jwt_secret", redacted,
		"Authorization", redacted,
		"traineeSignature", redacted,
		"dangling",
	}, got)
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	log.With("service", "PlanService").Info("day started", "plan_id", "p-1", "day_number", 2, "token", "t")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "day started", entries[0].Message)
	assert.Equal(t, "PlanService", fields["service"])
	assert.Equal(t, "p-1", fields["plan_id"])
	assert.EqualValues(t, 2, fields["day_number"])
	assert.Equal(t, redacted, fields["token"])
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"production", "development", "test"} {
		log, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, log)
	}
}
