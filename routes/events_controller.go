package routes

import (
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/mbolis/club-site/app"
	"github.com/mbolis/club-site/httpx"
	"github.com/mbolis/club-site/log"
	"github.com/mbolis/club-site/model"
)

func PublicListEvents(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.QueryContext(r.Context(), `
			SELECT id, title, description, event_date, image_url, image_public_id, created_at
			FROM event
			ORDER BY event_date DESC`)
		if err != nil {
			httpx.LogInternalError(w, "db.get_events", err)
			return
		}
		defer rows.Close()

		events := []model.Event{}
		for rows.Next() {
			e := model.Event{}
			err = rows.Scan(
				&e.ID, &e.Title, &e.Description, &e.EventDate,
				&e.ImageUrl, &e.ImagePublicID, &e.CreatedAt,
			)
			if err != nil {
				httpx.LogInternalError(w, "db.get_events.scan", err)
				return
			}
			events = append(events, e)
		}

		render.JSON(w, r, map[string]any{
			"events": events,
		})
	}
}

// parseEventForm reads an event off a JSON or multipart body. Multipart
// bodies may carry an image file, uploaded to the events folder before the
// row is written.
func parseEventForm(app app.App, r *http.Request) (e model.Event, err error) {
	if !strings.HasPrefix(r.Header.Get("content-type"), "multipart/") {
		err = render.DecodeJSON(r.Body, &e)
		return
	}

	err = r.ParseMultipartForm(maxUploadMemory)
	if err != nil {
		return
	}

	e.Title = r.FormValue("title")
	e.Description = r.FormValue("description")
	if date := r.FormValue("eventDate"); date != "" {
		e.EventDate, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return
		}
	}

	var image *multipart.FileHeader
	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		image = files[0]
	}
	if image != nil {
		asset, uploadErr := app.Storage.Upload(r.Context(), image, "events")
		if uploadErr != nil {
			err = uploadErr
			return
		}
		e.ImageUrl = asset.Url
		e.ImagePublicID = asset.PublicID
	}
	return
}

func CreateEvent(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := parseEventForm(app, r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if event.Title == "" || event.EventDate.IsZero() {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.validate",
				"title and event date are required")
			return
		}

		var eventId int
		err = app.QueryRowContext(r.Context(), `
			INSERT INTO event (title, description, event_date, image_url, image_public_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`,
			event.Title,
			event.Description,
			event.EventDate,
			event.ImageUrl,
			event.ImagePublicID,
			time.Now(),
		).Scan(&eventId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_event", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": eventId,
		})
	}
}

func UpdateEvent(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventId, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		event, err := parseEventForm(app, r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		res, err := app.ExecContext(r.Context(), `
			UPDATE event
			SET
				title = ?,
				description = ?,
				event_date = ?,
				image_url = CASE WHEN ? != '' THEN ? ELSE image_url END,
				image_public_id = CASE WHEN ? != '' THEN ? ELSE image_public_id END
			WHERE id = ?`,
			event.Title,
			event.Description,
			event.EventDate,
			event.ImageUrl, event.ImageUrl,
			event.ImagePublicID, event.ImagePublicID,
			eventId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_event", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.update_event.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "update_event", eventId)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteEvent(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventId, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var imagePublicId string
		err = app.QueryRowContext(r.Context(), `
			DELETE FROM event WHERE id = ?
			RETURNING image_public_id`,
			eventId,
		).Scan(&imagePublicId)
		if err != nil {
			httpx.LogNotFound(w, "delete_event", eventId)
			return
		}

		if imagePublicId != "" {
			err = app.Storage.Delete(r.Context(), imagePublicId)
			if err != nil {
				// row is gone, the orphaned image is only a warning
				log.Warnf("delete_event.image: %s", err)
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
