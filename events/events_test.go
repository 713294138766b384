package events

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/testgcahm/gis/eventstore"
	"github.com/testgcahm/gis/middleware"
	"github.com/testgcahm/gis/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeStore implements Store in memory with the same ordering semantics as
// the Mongo adapter: create shifts every order up and inserts at 0.
type fakeStore struct {
	events           []models.Event
	updateOrderCalls [][]models.OrderPair
	updatedFields    map[string]map[string]any
	failWith         error
}

func newFakeStore() *fakeStore {
	return &fakeStore{updatedFields: make(map[string]map[string]any)}
}

func (f *fakeStore) ListAll(ctx context.Context) ([]models.Event, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]models.Event, len(f.events))
	copy(out, f.events)
	return out, nil
}

func (f *fakeStore) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	for i := range f.events {
		if f.events[i].Slug == slug {
			ev := f.events[i]
			return &ev, nil
		}
	}
	return nil, eventstore.ErrNotFound
}

func (f *fakeStore) Create(ctx context.Context, event *models.Event) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	for _, ev := range f.events {
		if ev.Slug == event.Slug {
			return "", eventstore.ErrDuplicateSlug
		}
	}
	for i := range f.events {
		f.events[i].Order++
	}
	event.ID = primitive.NewObjectID()
	event.Order = 0
	f.events = append(f.events, *event)
	return event.ID.Hex(), nil
}

func (f *fakeStore) Update(ctx context.Context, id string, fields map[string]any) error {
	for i := range f.events {
		if f.events[i].ID.Hex() == id {
			f.updatedFields[id] = fields
			return nil
		}
	}
	return eventstore.ErrNotFound
}

func (f *fakeStore) UpdateOrder(ctx context.Context, pairs []models.OrderPair) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.updateOrderCalls = append(f.updateOrderCalls, pairs)
	for _, p := range pairs {
		for i := range f.events {
			if f.events[i].ID.Hex() == p.ID {
				f.events[i].Order = p.Order
			}
		}
	}
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	for i := range f.events {
		if f.events[i].ID.Hex() == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return eventstore.ErrNotFound
}

func newTestHandler(store Store) *Handler {
	return New(store, nil, nil, "https://society.example.org/", testLogger)
}

func validEventBody(title string) map[string]any {
	return map[string]any{
		"title":       title,
		"date":        "2025-06-01",
		"time":        "6:00 PM",
		"venue":       "Main Hall",
		"activities":  "Talk, Dinner",
		"audience":    "Everyone",
		"description": "An evening gathering.",
		"image":       "https://img.example.org/a.png",
	}
}

func doJSON(t *testing.T, handle httprouter.Handle, method string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, "/api/events", &buf)
	rec := httptest.NewRecorder()
	handle(rec, req, nil)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateEventDerivesSlugFromTitle(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)

	rec := doJSON(t, h.CreateEvent, http.MethodPost, validEventBody("Test Talk"))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["id"])
	require.Len(t, store.events, 1)
	assert.Equal(t, "test-talk", store.events[0].Slug)
}

func TestCreateEventDuplicateSlugRejected(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)

	rec := doJSON(t, h.CreateEvent, http.MethodPost, validEventBody("Test Talk"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h.CreateEvent, http.MethodPost, validEventBody("Test Talk"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "slug")
	assert.Len(t, store.events, 1)
}

func TestCreateEventMissingRequiredField(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)

	body := validEventBody("Test Talk")
	delete(body, "venue")
	rec := doJSON(t, h.CreateEvent, http.MethodPost, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "venue")
	assert.Empty(t, store.events)
}

// A newly created event surfaces first: order 0, every prior event +1.
func TestCreateEventInsertsAtTop(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)

	doJSON(t, h.CreateEvent, http.MethodPost, validEventBody("First"))
	doJSON(t, h.CreateEvent, http.MethodPost, validEventBody("Second"))
	rec := doJSON(t, h.CreateEvent, http.MethodPost, validEventBody("Iftar Night"))
	require.Equal(t, http.StatusOK, rec.Code)

	listRec := httptest.NewRecorder()
	h.GetEvents(listRec, httptest.NewRequest(http.MethodGet, "/api/events", nil), nil)
	require.Equal(t, http.StatusOK, listRec.Code)

	var listing struct {
		EventsArray []models.Event `json:"eventsArray"`
	}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &listing))
	require.Len(t, listing.EventsArray, 3)

	assert.Equal(t, "Iftar Night", listing.EventsArray[0].Title)
	assert.Equal(t, 0, listing.EventsArray[0].Order)
	assert.Equal(t, "Second", listing.EventsArray[1].Title)
	assert.Equal(t, 1, listing.EventsArray[1].Order)
	assert.Equal(t, "First", listing.EventsArray[2].Title)
	assert.Equal(t, 2, listing.EventsArray[2].Order)
}

func TestUpdateEventBatchReorder(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)

	doJSON(t, h.CreateEvent, http.MethodPost, validEventBody("A"))
	doJSON(t, h.CreateEvent, http.MethodPost, validEventBody("B"))

	pairs := []models.OrderPair{
		{ID: store.events[0].ID.Hex(), Order: 0},
		{ID: store.events[1].ID.Hex(), Order: 1},
	}
	rec := doJSON(t, h.UpdateEvent, http.MethodPut, map[string]any{"order": pairs})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
	require.Len(t, store.updateOrderCalls, 1)
	assert.Equal(t, pairs, store.updateOrderCalls[0])
	assert.Equal(t, 0, store.events[0].Order)
	assert.Equal(t, 1, store.events[1].Order)
}

func TestUpdateEventSingleUpdate(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)

	doJSON(t, h.CreateEvent, http.MethodPost, validEventBody("A"))
	id := store.events[0].ID.Hex()

	rec := doJSON(t, h.UpdateEvent, http.MethodPut, map[string]any{"id": id, "venue": "New Hall"})
	require.Equal(t, http.StatusOK, rec.Code)

	fields := store.updatedFields[id]
	require.NotNil(t, fields)
	assert.Equal(t, "New Hall", fields["venue"])
	assert.NotContains(t, fields, "id")
}

func TestUpdateEventMissingID(t *testing.T) {
	h := newTestHandler(newFakeStore())
	rec := doJSON(t, h.UpdateEvent, http.MethodPut, map[string]any{"venue": "New Hall"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateEventNotFound(t *testing.T) {
	h := newTestHandler(newFakeStore())
	rec := doJSON(t, h.UpdateEvent, http.MethodPut,
		map[string]any{"id": primitive.NewObjectID().Hex(), "venue": "New Hall"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEvent(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)

	doJSON(t, h.CreateEvent, http.MethodPost, validEventBody("A"))
	id := store.events[0].ID.Hex()

	rec := doJSON(t, h.DeleteEvent, http.MethodDelete, map[string]any{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.events)
}

func TestDeleteEventNotFoundLeavesOthersIntact(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)

	doJSON(t, h.CreateEvent, http.MethodPost, validEventBody("A"))

	rec := doJSON(t, h.DeleteEvent, http.MethodDelete,
		map[string]any{"id": primitive.NewObjectID().Hex()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, store.events, 1)
}

func TestGetEventBySlug(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)
	doJSON(t, h.CreateEvent, http.MethodPost, validEventBody("Iftar Night"))

	req := httptest.NewRequest(http.MethodGet, "/api/events/iftar-night", nil)
	rec := httptest.NewRecorder()
	h.GetEventBySlug(rec, req, httprouter.Params{{Key: "slug", Value: "iftar-night"}})

	require.Equal(t, http.StatusOK, rec.Code)
	var ev models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ev))
	assert.Equal(t, "Iftar Night", ev.Title)

	rec = httptest.NewRecorder()
	h.GetEventBySlug(rec, req, httprouter.Params{{Key: "slug", Value: "nope"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// The full gate taxonomy across the mutation endpoints: allow-listed tokens
// pass, valid-but-unknown emails are forbidden, garbled tokens unauthorized.
func TestMutationEndpointsThroughGate(t *testing.T) {
	secret := []byte("test-secret")
	gate := middleware.NewGate(secret, []string{"admin@example.com"})
	store := newFakeStore()
	h := newTestHandler(store)

	router := httprouter.New()
	router.GET("/api/events", h.GetEvents)
	router.POST("/api/events", gate.Authenticate(h.CreateEvent))
	router.PUT("/api/events", gate.Authenticate(h.UpdateEvent))
	router.DELETE("/api/events", gate.Authenticate(h.DeleteEvent))

	sign := func(email string) string {
		claims := middleware.Claims{
			Email: email,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		require.NoError(t, err)
		return token
	}

	do := func(method, token string, body any) int {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(method, "/api/events", &buf)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		assert.Equal(t, http.StatusUnauthorized, do(method, "", validEventBody("X")), method)
		assert.Equal(t, http.StatusUnauthorized, do(method, "garbage", validEventBody("X")), method)
		assert.Equal(t, http.StatusForbidden, do(method, sign("other@example.com"), validEventBody("X")), method)
	}

	// GET stays public.
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Allow-listed token commits a create end to end.
	assert.Equal(t, http.StatusOK, do(http.MethodPost, sign("admin@example.com"), validEventBody("Iftar Night")))
	require.Len(t, store.events, 1)
	assert.Equal(t, "iftar-night", store.events[0].Slug)
	assert.Equal(t, 0, store.events[0].Order)
}
