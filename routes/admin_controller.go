package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/club-site/app"
	"github.com/mbolis/club-site/export"
	"github.com/mbolis/club-site/httpx"
	"github.com/mbolis/club-site/log"
	"github.com/mbolis/club-site/model"
)

const activityColumns = `
	a.id, a.version, a.title, a.description,
	a.registration_start, a.registration_end, a.event_date,
	a.max_participants, a.is_paid, a.fee,
	a.payment_url, a.payment_instructions,
	a.form_schema, a.created_at, a.updated_at`

func scanActivity(scan func(dest ...any) error) (a model.Activity, err error) {
	var maxParticipants sql.NullInt64
	var fee sql.NullFloat64
	var formSchema string

	err = scan(
		&a.ID, &a.Version, &a.Title, &a.Description,
		&a.RegistrationStart, &a.RegistrationEnd, &a.EventDate,
		&maxParticipants, &a.IsPaid, &fee,
		&a.PaymentDetails.PaymentUrl, &a.PaymentDetails.Instructions,
		&formSchema, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return
	}

	if maxParticipants.Valid {
		n := int(maxParticipants.Int64)
		a.MaxParticipants = &n
	}
	if fee.Valid {
		a.Fee = &fee.Float64
	}

	err = json.Unmarshal([]byte(formSchema), &a.FormSchema)
	return
}

func urlParamInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}

func maxParticipantsArg(a model.Activity) any {
	if a.MaxParticipants == nil {
		return nil
	}
	return *a.MaxParticipants
}

func feeArg(a model.Activity) any {
	if a.Fee == nil {
		return nil
	}
	return *a.Fee
}

func validActivity(a model.Activity) bool {
	return a.Title != "" && a.Description != "" &&
		!a.RegistrationStart.IsZero() && !a.RegistrationEnd.IsZero() && !a.EventDate.IsZero()
}

func CreateActivity(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activity := model.Activity{}
		err := render.DecodeJSON(r.Body, &activity)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if !validActivity(activity) {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.validate",
				"title, description, registration window and event date are required")
			return
		}

		if len(activity.FormSchema) == 0 {
			activity.FormSchema = model.DefaultFormSchema()
		}
		formSchema, err := json.Marshal(activity.FormSchema)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_activity.marshal_schema", err)
			return
		}

		now := time.Now()
		var activityId int
		err = app.QueryRowContext(r.Context(), `
			INSERT INTO activity (
				title, description,
				registration_start, registration_end, event_date,
				max_participants, is_paid, fee,
				payment_url, payment_instructions,
				form_schema, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			activity.Title,
			activity.Description,
			activity.RegistrationStart,
			activity.RegistrationEnd,
			activity.EventDate,
			maxParticipantsArg(activity),
			activity.IsPaid,
			feeArg(activity),
			activity.PaymentDetails.PaymentUrl,
			activity.PaymentDetails.Instructions,
			string(formSchema),
			now,
			now,
		).Scan(&activityId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_activity", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": activityId,
		})
	}
}

func ListActivities(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.QueryContext(r.Context(), `
			SELECT `+activityColumns+`
			FROM activity a
			ORDER BY a.event_date`)
		if err != nil {
			httpx.LogInternalError(w, "db.get_activities", err)
			return
		}
		defer rows.Close()

		activities := []model.Activity{}
		for rows.Next() {
			a, err := scanActivity(rows.Scan)
			if err != nil {
				httpx.LogInternalError(w, "db.get_activities.scan", err)
				return
			}
			activities = append(activities, a)
		}

		render.JSON(w, r, map[string]any{
			"activities": activities,
		})
	}
}

func GetActivityById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activityId, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		a, err := fetchActivity(r.Context(), app, activityId)
		if err != nil {
			if err == sql.ErrNoRows {
				httpx.LogNotFound(w, "get_activity", activityId)
			} else {
				httpx.LogInternalError(w, "db.get_activity", err)
			}
			return
		}

		render.JSON(w, r, a)
	}
}

func fetchActivity(ctx context.Context, app app.App, id int) (model.Activity, error) {
	row := app.QueryRowContext(ctx, `
		SELECT `+activityColumns+`
		FROM activity a
		WHERE a.id = ?`,
		id,
	)
	return scanActivity(row.Scan)
}

func UpdateActivity(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activityId, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		activity := model.Activity{}
		err = render.DecodeJSON(r.Body, &activity)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if !validActivity(activity) {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.validate",
				"title, description, registration window and event date are required")
			return
		}

		formSchema, err := json.Marshal(activity.FormSchema)
		if err != nil {
			httpx.LogInternalError(w, "db.update_activity.marshal_schema", err)
			return
		}

		res, err := app.ExecContext(r.Context(), `
			UPDATE activity
			SET
				title = ?,
				description = ?,
				registration_start = ?,
				registration_end = ?,
				event_date = ?,
				max_participants = ?,
				is_paid = ?,
				fee = ?,
				payment_url = ?,
				payment_instructions = ?,
				form_schema = ?,
				updated_at = ?,
				version = version+1
			WHERE	id = ?
				AND version = ?`,
			activity.Title,
			activity.Description,
			activity.RegistrationStart,
			activity.RegistrationEnd,
			activity.EventDate,
			maxParticipantsArg(activity),
			activity.IsPaid,
			feeArg(activity),
			activity.PaymentDetails.PaymentUrl,
			activity.PaymentDetails.Instructions,
			string(formSchema),
			time.Now(),
			activityId,
			activity.Version,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_activity", err)
			return
		}
		// optimistic lock
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.update_activity.verify", err)
			return
		}
		if n < 1 {
			httpx.LogStatus(w, http.StatusConflict, log.DebugLevel, "db.update_activity.verify.conflict")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteActivity(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		_, err = tx.ExecContext(r.Context(), `
			DELETE FROM registration
			WHERE activity_id = ?`,
			activityId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_activity.registrations", err)
			return
		}

		res, err := tx.ExecContext(r.Context(), `
			DELETE FROM activity WHERE id = ?`,
			activityId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_activity", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.delete_activity.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "delete_activity", activityId)
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.delete_activity.commit", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func fetchRegistrations(ctx context.Context, app app.App, where string, args ...any) ([]model.Registration, error) {
	rows, err := app.QueryContext(ctx, `
		SELECT
			r.id, r.activity_id, r.activity_title,
			r.submitted_at, r.status, r.form_schema, r.responses
		FROM registration r `+where+`
		ORDER BY r.submitted_at`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := []model.Registration{}
	for rows.Next() {
		reg := model.Registration{}
		var formSchema, responses string
		err = rows.Scan(
			&reg.ID, &reg.ActivityID, &reg.ActivityTitle,
			&reg.SubmittedAt, &reg.Status, &formSchema, &responses,
		)
		if err != nil {
			return nil, err
		}

		err = json.Unmarshal([]byte(formSchema), &reg.FormSchema)
		if err != nil {
			return nil, err
		}
		err = json.Unmarshal([]byte(responses), &reg.Responses)
		if err != nil {
			return nil, err
		}

		regs = append(regs, reg)
	}
	return regs, nil
}

func GetActivityRegistrations(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activityId, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		regs, err := fetchRegistrations(r.Context(), app, "WHERE r.activity_id = ?", activityId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_registrations", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"registrations": regs,
		})
	}
}

// ListAllRegistrations is the flat cross-activity view for the admin area.
func ListAllRegistrations(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regs, err := fetchRegistrations(r.Context(), app, "")
		if err != nil {
			httpx.LogInternalError(w, "db.get_all_registrations", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"registrations": regs,
		})
	}
}

func ExportActivityRegistrations(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activityId, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		regs, err := fetchRegistrations(r.Context(), app, "WHERE r.activity_id = ?", activityId)
		if err != nil {
			httpx.LogInternalError(w, "db.export_registrations", err)
			return
		}

		w.Header().Set("content-type", "text/csv")
		w.Header().Set("content-disposition",
			fmt.Sprintf(`attachment; filename="registrations_%d.csv"`, activityId))

		err = export.Registrations(w, regs)
		if err != nil {
			log.Errorf("export_registrations.write: %s", err)
		}
	}
}
