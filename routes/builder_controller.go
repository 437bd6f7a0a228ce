package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/club-site/app"
	"github.com/mbolis/club-site/httpx"
	"github.com/mbolis/club-site/log"
	"github.com/mbolis/club-site/schema"
)

// mutateSchema runs one schema store operation against an activity's form
// schema inside a transaction: load, mutate, persist, echo the full
// updated sequence. Extra response entries come from the mutation itself.
func mutateSchema(
	app app.App,
	w http.ResponseWriter,
	r *http.Request,
	mutate func(s schema.Schema) (schema.Schema, map[string]any, error),
) {
	activityId, err := urlParamInt(r, "id")
	if err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
		return
	}

	tx, err := app.BeginTx(r.Context(), nil)
	if err != nil {
		httpx.LogInternalError(w, "db.begin_tx", err)
		return
	}
	defer tx.Rollback()

	var formSchema string
	err = tx.QueryRowContext(r.Context(), `
		SELECT form_schema FROM activity WHERE id = ?`,
		activityId,
	).Scan(&formSchema)
	if err != nil {
		httpx.LogNotFound(w, "get_activity_schema", activityId)
		return
	}

	var s schema.Schema
	err = json.Unmarshal([]byte(formSchema), &s)
	if err != nil {
		httpx.LogInternalError(w, "db.get_activity_schema.parse", err)
		return
	}

	updated, extra, err := mutate(s)
	if err != nil {
		switch {
		case errors.Is(err, schema.ErrFieldNotFound):
			httpx.LogNotFound(w, "mutate_schema.field", chi.URLParam(r, "fieldId"))
		case errors.Is(err, schema.ErrLastOption):
			httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel,
				"mutate_schema.options", "choice fields need at least one option")
		case errors.Is(err, schema.ErrInvalidKind):
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel,
				"mutate_schema.kind", "invalid field kind")
		default:
			httpx.LogInternalError(w, "mutate_schema", err)
		}
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		httpx.LogInternalError(w, "db.update_activity_schema.marshal", err)
		return
	}

	_, err = tx.ExecContext(r.Context(), `
		UPDATE activity
		SET form_schema = ?, updated_at = ?, version = version+1
		WHERE id = ?`,
		string(updatedJson),
		time.Now(),
		activityId,
	)
	if err != nil {
		httpx.LogInternalError(w, "db.update_activity_schema", err)
		return
	}

	err = tx.Commit()
	if err != nil {
		httpx.LogInternalError(w, "db.update_activity_schema.commit", err)
		return
	}

	body := map[string]any{"fields": updated}
	for k, v := range extra {
		body[k] = v
	}
	render.JSON(w, r, body)
}

func AddFormField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Kind schema.Kind `json:"type"`
		}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		mutateSchema(app, w, r, func(s schema.Schema) (schema.Schema, map[string]any, error) {
			updated, field, err := s.Add(body.Kind)
			if err != nil {
				return nil, nil, err
			}
			return updated, map[string]any{
				"field": field,
				// content elements go straight to their settings view
				"openSettings": field.Kind.IsContent(),
			}, nil
		})
	}
}

func UpdateFormField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch schema.Patch
		err := render.DecodeJSON(r.Body, &patch)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		fieldId := chi.URLParam(r, "fieldId")
		mutateSchema(app, w, r, func(s schema.Schema) (schema.Schema, map[string]any, error) {
			updated, err := s.Update(fieldId, patch)
			return updated, nil, err
		})
	}
}

func DeleteFormField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fieldId := chi.URLParam(r, "fieldId")
		mutateSchema(app, w, r, func(s schema.Schema) (schema.Schema, map[string]any, error) {
			updated, err := s.Delete(fieldId)
			return updated, nil, err
		})
	}
}

func DuplicateFormField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fieldId := chi.URLParam(r, "fieldId")
		mutateSchema(app, w, r, func(s schema.Schema) (schema.Schema, map[string]any, error) {
			updated, field, err := s.Duplicate(fieldId)
			if err != nil {
				return nil, nil, err
			}
			return updated, map[string]any{"field": field}, nil
		})
	}
}

func MoveFormField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Direction schema.Direction `json:"direction"`
		}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if body.Direction != schema.Up && body.Direction != schema.Down {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body.direction")
			return
		}

		fieldId := chi.URLParam(r, "fieldId")
		mutateSchema(app, w, r, func(s schema.Schema) (schema.Schema, map[string]any, error) {
			updated, err := s.Move(fieldId, body.Direction)
			return updated, nil, err
		})
	}
}

// ActivityFormBuilder serves the editable authoring surface for an
// activity's registration form.
func ActivityFormBuilder(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activityId, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		a, err := fetchActivity(r.Context(), app, activityId)
		if err != nil {
			httpx.LogNotFound(w, "get_activity", activityId)
			return
		}

		html, err := schema.RenderBuilder(a.FormSchema)
		if err != nil {
			httpx.LogInternalError(w, "render.builder", err)
			return
		}

		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}
}
