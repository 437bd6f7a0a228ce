package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/mbolis/club-site/app"
	"github.com/mbolis/club-site/httpx"
	"github.com/mbolis/club-site/log"
	"github.com/mbolis/club-site/model"
	"github.com/mbolis/club-site/schema"
)

type publicActivity struct {
	model.Activity
	Registered       int  `json:"registered"`
	RegistrationOpen bool `json:"registrationOpen"`
	CanRegister      bool `json:"canRegister"`
}

func toPublic(a model.Activity, registered int, now time.Time) publicActivity {
	open := a.RegistrationOpen(now)
	return publicActivity{
		Activity:         a,
		Registered:       registered,
		RegistrationOpen: open,
		CanRegister:      open && a.HasSpace(registered),
	}
}

func PublicListActivities(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.QueryContext(r.Context(), `
			SELECT `+activityColumns+`, count(r.id)
			FROM activity a
			LEFT OUTER JOIN registration r ON (a.id = r.activity_id)
			GROUP BY a.id
			ORDER BY a.event_date`)
		if err != nil {
			httpx.LogInternalError(w, "db.get_activities", err)
			return
		}
		defer rows.Close()

		now := time.Now()
		activities := []publicActivity{}
		for rows.Next() {
			var registered int
			a, err := scanActivityCount(rows, &registered)
			if err != nil {
				httpx.LogInternalError(w, "db.get_activities.scan", err)
				return
			}
			activities = append(activities, toPublic(a, registered, now))
		}

		render.JSON(w, r, map[string]any{
			"activities": activities,
		})
	}
}

func scanActivityCount(rows *sql.Rows, registered *int) (model.Activity, error) {
	return scanActivity(func(dest ...any) error {
		return rows.Scan(append(dest, registered)...)
	})
}

func PublicGetActivityById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activityId, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		a, registered, err := fetchActivityWithCount(app, r, activityId)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				httpx.LogNotFound(w, "get_activity", activityId)
			} else {
				httpx.LogInternalError(w, "db.get_activity", err)
			}
			return
		}

		render.JSON(w, r, toPublic(a, registered, time.Now()))
	}
}

func fetchActivityWithCount(app app.App, r *http.Request, activityId int) (model.Activity, int, error) {
	row := app.QueryRowContext(r.Context(), `
		SELECT `+activityColumns+`, count(r.id)
		FROM activity a
		LEFT OUTER JOIN registration r ON (a.id = r.activity_id)
		WHERE a.id = ?
		GROUP BY a.id`,
		activityId,
	)

	var registered int
	a, err := scanActivity(func(dest ...any) error {
		return row.Scan(append(dest, &registered)...)
	})
	return a, registered, err
}

// PublicActivityForm serves the fillable registration form for an activity.
func PublicActivityForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activityId, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		a, err := fetchActivity(r.Context(), app, activityId)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				httpx.LogNotFound(w, "get_activity", activityId)
			} else {
				httpx.LogInternalError(w, "db.get_activity", err)
			}
			return
		}

		html, err := schema.RenderPublicForm(a.FormSchema, nil)
		if err != nil {
			httpx.LogInternalError(w, "render.public_form", err)
			return
		}

		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}
}

func PublicSubmitRegistration(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activityId, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		a, registered, err := fetchActivityWithCount(app, r, activityId)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				httpx.LogNotFound(w, "get_activity", activityId)
			} else {
				httpx.LogInternalError(w, "db.get_activity", err)
			}
			return
		}

		now := time.Now()
		if !a.RegistrationOpen(now) {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel,
				"registration.closed", "registration is closed")
			return
		}
		if !a.HasSpace(registered) {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel,
				"registration.full", "activity is full")
			return
		}

		responses, err := collectResponses(r, a.FormSchema)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		// validation happens before any upload: a rejected submission
		// must not leave files behind
		missing := a.FormSchema.Validate(responses)
		if len(missing) > 0 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, map[string]any{
				"missingFields": missing,
			})
			return
		}

		responses, err = a.FormSchema.Package(r.Context(), responses, app.Storage, a.Title)
		if err != nil {
			httpx.LogInternalError(w, "storage.upload_form_file", err)
			return
		}

		status := a.RegistrationStatus()

		registrationId, err := insertRegistration(r.Context(), app, a, activityId, now, status, responses)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel,
					"registration.full", "activity is full")
				return
			}
			httpx.LogInternalError(w, "db.insert_registration", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":     registrationId,
			"status": status,
		})
	}
}

// insertRegistration persists a packaged submission. The capacity check is
// part of the insert itself, so two concurrent submissions racing for the
// last slot cannot both get in; a full activity surfaces as sql.ErrNoRows.
func insertRegistration(
	ctx context.Context,
	app app.App,
	a model.Activity,
	activityId int,
	now time.Time,
	status model.Status,
	responses schema.Responses,
) (int, error) {
	formSchema, err := json.Marshal(a.FormSchema.Clone())
	if err != nil {
		return 0, err
	}
	responsesJson, err := json.Marshal(responses)
	if err != nil {
		return 0, err
	}

	var registrationId int
	err = app.QueryRowContext(ctx, `
		INSERT INTO registration (
			activity_id, activity_title, submitted_at, status, form_schema, responses
		)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE ? IS NULL
			OR (SELECT count(*) FROM registration WHERE activity_id = ?) < ?
		RETURNING id`,
		activityId,
		a.Title,
		now,
		status,
		string(formSchema),
		string(responsesJson),
		maxParticipantsArg(a),
		activityId,
		maxParticipantsArg(a),
	).Scan(&registrationId)
	return registrationId, err
}

const maxUploadMemory = 32 << 20

// collectResponses reads the visitor's answers off the request, keyed by
// field id. Multipart bodies carry file answers as pending upload handles;
// JSON bodies carry everything as plain values.
func collectResponses(r *http.Request, s schema.Schema) (schema.Responses, error) {
	if !strings.HasPrefix(r.Header.Get("content-type"), "multipart/") {
		responses := schema.Responses{}
		err := render.DecodeJSON(r.Body, &responses)
		return responses, err
	}

	err := r.ParseMultipartForm(maxUploadMemory)
	if err != nil {
		return nil, err
	}

	responses := schema.Responses{}
	for _, f := range s {
		if f.Kind.IsContent() {
			continue
		}

		switch f.Kind {
		case schema.Checkbox:
			if values := r.MultipartForm.Value[f.ID]; len(values) > 0 {
				responses[f.ID] = values
			}
		case schema.File:
			if files := r.MultipartForm.File[f.ID]; len(files) > 0 {
				responses[f.ID] = files[0]
			}
		default:
			if value := r.FormValue(f.ID); value != "" {
				responses[f.ID] = value
			}
		}
	}
	return responses, nil
}
