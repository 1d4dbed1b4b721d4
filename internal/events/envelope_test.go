package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeValidate(t *testing.T) {
	env := EventEnvelope[CartItemAdded]{
		EventName:    "CartItemAdded",
		EventVersion: 1,
		EventID:      "evt-1",
		Producer:     producerName,
		PartitionKey: "user-1",
		OccurredAt:   time.Now().UTC(),
	}

	require.NoError(t, env.Validate("CartItemAdded", 1))
	assert.Error(t, env.Validate("CartItemRemoved", 1))
	assert.Error(t, env.Validate("CartItemAdded", 2))

	env.PartitionKey = ""
	assert.Error(t, env.Validate("CartItemAdded", 1))
}

func TestEnvelopeJSON_OmitsUnsetSequence(t *testing.T) {
	env := EventEnvelope[CartItemRemoved]{
		EventName:    "CartItemRemoved",
		EventVersion: 1,
		EventID:      "evt-2",
		Producer:     producerName,
		PartitionKey: "user-1",
		OccurredAt:   time.Now().UTC(),
		Payload:      CartItemRemoved{UserID: "user-1", LineID: "line-1"},
	}

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "sequence")
	assert.NotContains(t, decoded, "correlationId")

	seq := int64(7)
	env.Sequence = &seq
	raw, err = json.Marshal(env)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.EqualValues(t, 7, decoded["sequence"])
}
