package events

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLoggersUseSlog(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil)).WithGroup("kafka")

	(&infoLogger{l: l}).Printf("writing %d messages", 3)
	(&errorLogger{l: l}).Printf("dial %s: refused", "kafka:9092")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))

	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "writing 3 messages", first["msg"])
	assert.Equal(t, "ERROR", second["level"])
	assert.Equal(t, "dial kafka:9092: refused", second["msg"])
}

func TestEventJSONShape(t *testing.T) {
	b, err := json.Marshal(Event{Entity: "team", Action: "create", ID: "T1", ActorID: "U1"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"entity", "action", "id", "actorId", "occurredAt"} {
		assert.Contains(t, m, k)
	}
}
