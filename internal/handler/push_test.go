package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/push"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemberNotifier struct {
	member  model.Member
	payload push.Payload
}

func (f *fakeMemberNotifier) SendToMember(_ context.Context, m model.Member, p push.Payload) (int, error) {
	f.member, f.payload = m, p
	return 2, nil
}

func TestPushSubscribeAndList(t *testing.T) {
	stores := setupStores(t)
	h := NewPushHandler(stores.Push, &fakeMemberNotifier{}, "pub-key", testLogger())

	rec := call(t, h.Subscribe, "POST", "/api/push/subscribe", subscribeRequest{Endpoint: "http://insecure", P256dh: "p", Auth: "a"}, model.MemberA)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h.Subscribe, "POST", "/api/push/subscribe", subscribeRequest{Endpoint: "https://push.example/1"}, model.MemberA)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h.Subscribe, "POST", "/api/push/subscribe", subscribeRequest{Endpoint: "https://push.example/1", P256dh: "p", Auth: "a", DeviceName: "phone"}, model.MemberA)
	require.Equal(t, http.StatusCreated, rec.Code)
	sub := decode[model.PushSubscription](t, rec)
	assert.Equal(t, model.MemberA, sub.Member)

	rec = call(t, h.ListSubscriptions, "GET", "/", nil, model.MemberA)
	assert.Len(t, decode[[]model.PushSubscription](t, rec), 1)
	rec = call(t, h.ListSubscriptions, "GET", "/", nil, model.MemberB)
	assert.Empty(t, decode[[]model.PushSubscription](t, rec))

	rec = call(t, h.Unsubscribe, "DELETE", "/", nil, model.MemberA, "id", "1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = call(t, h.Unsubscribe, "DELETE", "/", nil, model.MemberA, "id", "1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPushVAPIDKeyAndTest(t *testing.T) {
	stores := setupStores(t)
	sender := &fakeMemberNotifier{}
	h := NewPushHandler(stores.Push, sender, "pub-key", testLogger())

	rec := call(t, h.GetVAPIDKey, "GET", "/", nil, model.MemberA)
	assert.Equal(t, "pub-key", decode[map[string]string](t, rec)["public_key"])

	rec = call(t, h.TestNotification, "POST", "/", nil, model.MemberB)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[map[string]int](t, rec)["sent"])
	assert.Equal(t, model.MemberB, sender.member)
	assert.Equal(t, "test", sender.payload.Tag)
}
