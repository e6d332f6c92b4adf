package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bilara-reader-be/internal/dto"
	"bilara-reader-be/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testPreferenceTopic = "test.preference.changed"

func newPreferenceFixture(sessions *memory.SessionRepository) (IPreferenceService, *gochannel.GoChannel) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisher := NewPublisherService(testPreferenceTopic, pubSub)
	return NewPreferenceService(memory.NewPreferenceRepository(), publisher, sessions), pubSub
}

func TestPreferenceDefaultsForNewSession(t *testing.T) {
	svc, _ := newPreferenceFixture(memory.NewSessionRepository())

	res, err := svc.Get(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Equal(t, "sidebyside", res.Layout)
	assert.Equal(t, "asterisk", res.Notes)
	assert.Equal(t, "latin", res.Script)
	assert.Equal(t, []string{"none"}, res.References)
	assert.False(t, res.Highlight)
}

func TestPreferenceUpdateRoundTrip(t *testing.T) {
	svc, _ := newPreferenceFixture(memory.NewSessionRepository())
	sessionId := uuid.New()

	upd, err := svc.Update(context.Background(), sessionId, &dto.UpdatePreferenceRequest{
		Layout:     "linebyline",
		Notes:      "sidenotes",
		Script:     "devanagari",
		References: []string{"main", "pts-vp-pli"},
		Highlight:  true,
	})
	assert.NoError(t, err)
	assert.False(t, upd.Mismatch)

	res, err := svc.Get(context.Background(), sessionId)
	assert.NoError(t, err)
	assert.Equal(t, "linebyline", res.Layout)
	assert.Equal(t, "sidenotes", res.Notes)
	assert.Equal(t, "devanagari", res.Script)
	assert.Equal(t, []string{"main", "pts-vp-pli"}, res.References)
	assert.True(t, res.Highlight)

	// Another session must not see the write.
	other, err := svc.Get(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Equal(t, "sidebyside", other.Layout)
}

func TestPreferenceUpdateNormalizesUnknownScript(t *testing.T) {
	svc, _ := newPreferenceFixture(memory.NewSessionRepository())
	sessionId := uuid.New()

	_, err := svc.Update(context.Background(), sessionId, &dto.UpdatePreferenceRequest{
		Layout:     "plain",
		Notes:      "none",
		Script:     "klingon",
		References: []string{"none"},
	})
	assert.NoError(t, err)

	res, err := svc.Get(context.Background(), sessionId)
	assert.NoError(t, err)
	assert.Equal(t, "latin", res.Script)
}

func TestPreferenceUpdatePublishesChange(t *testing.T) {
	svc, pubSub := newPreferenceFixture(memory.NewSessionRepository())
	sessionId := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, testPreferenceTopic)
	assert.NoError(t, err)

	_, err = svc.Update(context.Background(), sessionId, &dto.UpdatePreferenceRequest{
		Layout:     "plain",
		Notes:      "none",
		Script:     "latin",
		References: []string{"main"},
	})
	assert.NoError(t, err)

	select {
	case msg := <-messages:
		var payload dto.PreferenceChangedMessage
		assert.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, sessionId, payload.SessionId)
		assert.Equal(t, "plain", payload.State.Layout)
		assert.False(t, payload.Restored)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no preference change published")
	}
}

func TestPreferenceRestorePublishesSavedState(t *testing.T) {
	svc, pubSub := newPreferenceFixture(memory.NewSessionRepository())
	sessionId := uuid.New()

	_, err := svc.Update(context.Background(), sessionId, &dto.UpdatePreferenceRequest{
		Layout:     "linebyline",
		Notes:      "asterisk",
		Script:     "latin",
		References: []string{"none"},
	})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, testPreferenceTopic)
	assert.NoError(t, err)

	res, err := svc.Restore(context.Background(), sessionId)
	assert.NoError(t, err)
	assert.Equal(t, "linebyline", res.Layout)

	select {
	case msg := <-messages:
		var payload dto.PreferenceChangedMessage
		assert.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.True(t, payload.Restored)
		assert.Equal(t, "linebyline", payload.State.Layout)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no restore message published")
	}
}
