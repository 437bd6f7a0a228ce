package routes

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mbolis/club-site/app"
	"github.com/mbolis/club-site/config"
	"github.com/mbolis/club-site/database"
	"github.com/mbolis/club-site/model"
	"github.com/mbolis/club-site/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp opens a throwaway migrated database. Storage stays nil: any test
// that reaches the uploader by mistake panics instead of passing silently.
func testApp(t *testing.T) app.App {
	t.Helper()

	db, err := database.Open(config.Config{
		DBUrl: filepath.Join(t.TempDir(), "test.sqlite"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return app.App{DB: db}
}

func requiredTextSchema(t *testing.T, labels ...string) schema.Schema {
	t.Helper()

	var s schema.Schema
	for _, label := range labels {
		var f schema.Field
		var err error
		s, f, err = s.Add(schema.Text)
		require.NoError(t, err)
		s, err = s.Update(f.ID, schema.Patch{
			Label:    &label,
			Required: boolArg(true),
		})
		require.NoError(t, err)
	}
	return s
}

func boolArg(b bool) *bool {
	return &b
}

func openActivity(s schema.Schema) model.Activity {
	now := time.Now()
	return model.Activity{
		Title:             "Chess Night",
		Description:       "Friendly blitz evening",
		RegistrationStart: now.Add(-time.Hour),
		RegistrationEnd:   now.Add(time.Hour),
		EventDate:         now.AddDate(0, 0, 7),
		FormSchema:        s,
	}
}

func insertTestActivity(t *testing.T, a app.App, activity model.Activity) int {
	t.Helper()

	formSchema, err := json.Marshal(activity.FormSchema)
	require.NoError(t, err)

	now := time.Now()
	var id int
	err = a.QueryRow(`
		INSERT INTO activity (
			title, description,
			registration_start, registration_end, event_date,
			max_participants, is_paid,
			form_schema, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		activity.Title,
		activity.Description,
		activity.RegistrationStart,
		activity.RegistrationEnd,
		activity.EventDate,
		maxParticipantsArg(activity),
		activity.IsPaid,
		string(formSchema),
		now,
		now,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func submit(t *testing.T, a app.App, activityId int, responses schema.Responses) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(responses)
	require.NoError(t, err)

	r := httptest.NewRequest("POST", "/", bytes.NewReader(body))
	r.Header.Set("content-type", "application/json")

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", strconv.Itoa(activityId))
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	PublicSubmitRegistration(a)(w, r)
	return w
}

func TestPublicSubmitRegistration_StatusFromPaidFlag(t *testing.T) {
	a := testApp(t)
	s := requiredTextSchema(t, "Full Name")

	freeId := insertTestActivity(t, a, openActivity(s))
	w := submit(t, a, freeId, schema.Responses{s[0].ID: "Ada Lovelace"})
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "confirmed", body["status"])

	paid := openActivity(s)
	paid.IsPaid = true
	paidId := insertTestActivity(t, a, paid)
	w = submit(t, a, paidId, schema.Responses{s[0].ID: "Grace Hopper"})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "pending_payment", body["status"])

	// the stored record carries the same status
	regs, err := fetchRegistrations(context.Background(), a, "WHERE r.activity_id = ?", paidId)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, model.StatusPendingPayment, regs[0].Status)
	assert.Equal(t, "Chess Night", regs[0].ActivityTitle)
}

func TestPublicSubmitRegistration_RejectedBeforeAnyUpload(t *testing.T) {
	a := testApp(t)

	s := requiredTextSchema(t, "Full Name")
	var card schema.Field
	var err error
	s, card, err = s.Add(schema.File)
	require.NoError(t, err)
	s, err = s.Update(card.ID, schema.Patch{
		Label:    strArg("ID Card"),
		Required: boolArg(true),
	})
	require.NoError(t, err)

	activityId := insertTestActivity(t, a, openActivity(s))

	// nothing answered: with a nil storage client, reaching the uploader
	// would panic, so a clean 422 proves rejection came first
	w := submit(t, a, activityId, schema.Responses{})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []any{"Full Name", "ID Card"}, body["missingFields"])

	regs, err := fetchRegistrations(context.Background(), a, "WHERE r.activity_id = ?", activityId)
	require.NoError(t, err)
	assert.Empty(t, regs)
}

func TestPublicSubmitRegistration_ClosedWindow(t *testing.T) {
	a := testApp(t)
	s := requiredTextSchema(t, "Full Name")

	closed := openActivity(s)
	closed.RegistrationEnd = time.Now().Add(-time.Minute)
	activityId := insertTestActivity(t, a, closed)

	w := submit(t, a, activityId, schema.Responses{s[0].ID: "Ada Lovelace"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPublicSubmitRegistration_FullActivity(t *testing.T) {
	a := testApp(t)
	s := requiredTextSchema(t, "Full Name")

	capped := openActivity(s)
	one := 1
	capped.MaxParticipants = &one
	activityId := insertTestActivity(t, a, capped)

	w := submit(t, a, activityId, schema.Responses{s[0].ID: "Ada Lovelace"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = submit(t, a, activityId, schema.Responses{s[0].ID: "Grace Hopper"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

// The insert re-checks capacity itself: even a submission whose earlier
// capacity check passed is turned away once the last slot is taken.
func TestInsertRegistration_EnforcesCapacityAtInsert(t *testing.T) {
	a := testApp(t)
	s := requiredTextSchema(t, "Full Name")

	capped := openActivity(s)
	one := 1
	capped.MaxParticipants = &one
	activityId := insertTestActivity(t, a, capped)

	activity, err := fetchActivity(context.Background(), a, activityId)
	require.NoError(t, err)

	now := time.Now()
	_, err = insertRegistration(context.Background(), a, activity, activityId, now,
		model.StatusConfirmed, schema.Responses{s[0].ID: "Ada Lovelace"})
	require.NoError(t, err)

	_, err = insertRegistration(context.Background(), a, activity, activityId, now,
		model.StatusConfirmed, schema.Responses{s[0].ID: "Grace Hopper"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInsertRegistration_Unlimited(t *testing.T) {
	a := testApp(t)
	s := requiredTextSchema(t, "Full Name")
	activityId := insertTestActivity(t, a, openActivity(s))

	activity, err := fetchActivity(context.Background(), a, activityId)
	require.NoError(t, err)

	now := time.Now()
	for _, name := range []string{"Ada Lovelace", "Grace Hopper", "Katherine Johnson"} {
		_, err = insertRegistration(context.Background(), a, activity, activityId, now,
			model.StatusConfirmed, schema.Responses{s[0].ID: name})
		require.NoError(t, err)
	}
}

func strArg(s string) *string {
	return &s
}
