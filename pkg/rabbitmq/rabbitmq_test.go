package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rental/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleDelivery(t *testing.T) {
	event := models.PlaceEvent{
		Type:       models.PlaceCreated,
		PlaceID:    "place-1",
		OwnerID:    "ana",
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	var got models.PlaceEvent
	err = handleDelivery(body, func(e models.PlaceEvent) error {
		got = e
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestHandleDelivery_Errors(t *testing.T) {
	err := handleDelivery([]byte("{not json"), func(models.PlaceEvent) error {
		t.Fatal("handler must not run for malformed bodies")
		return nil
	})
	assert.Error(t, err)

	boom := errors.New("boom")
	err = handleDelivery([]byte(`{"type":"place.updated"}`), func(models.PlaceEvent) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestClosedClientRefusesWork(t *testing.T) {
	c := &Client{}
	assert.Error(t, c.PublishPlaceEvent(models.PlaceEvent{Type: models.PlaceCreated}))
	assert.Error(t, c.ConsumePlaceEvents(LogPlaceEvent))
	assert.NoError(t, c.Close())
}
