package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent([]byte(`{"type":"user.created","object":"event","data":{"id":"u1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "user.created", event.Type)
	assert.Equal(t, "event", event.Object)
	require.NotNil(t, event.Data.String("id"))
	assert.Equal(t, "u1", *event.Data.String("id"))
}

func TestParseEventMalformed(t *testing.T) {
	_, err := ParseEvent([]byte(`{"type":`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestEventDataDefensiveAccess(t *testing.T) {
	data := EventData{
		"name":    "Acme",
		"count":   float64(42),
		"wrong":   123,
		"nested":  map[string]any{"id": "org_1"},
		"list":    []any{map[string]any{"k": "v"}, "not-an-object"},
		"badlist": "nope",
	}

	require.NotNil(t, data.String("name"))
	assert.Equal(t, "Acme", *data.String("name"))
	assert.Nil(t, data.String("wrong"))
	assert.Nil(t, data.String("absent"))

	require.NotNil(t, data.Int64("count"))
	assert.Equal(t, int64(42), *data.Int64("count"))
	assert.Nil(t, data.Int64("name"))

	require.NotNil(t, data.Object("nested"))
	assert.Equal(t, "org_1", *data.Object("nested").String("id"))
	assert.Nil(t, data.Object("name"))
	assert.Nil(t, data.Object("absent"))

	assert.Len(t, data.Objects("list"), 1)
	assert.Nil(t, data.Objects("badlist"))

	// Chained access through an absent object never panics.
	var nilData EventData
	assert.Nil(t, nilData.Object("a").Object("b").String("c"))
}
