package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mbolis/club-site/app"
	"github.com/mbolis/club-site/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	root.
		With(middlewares.CookieAuth(app.BearerServer), middlewares.Admin(app.TokenSecret)).
		Mount("/admin", servePrivateFiles("/admin"))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// public site
	api.Get("/activities", PublicListActivities(app))
	api.Get(`/activities/{id:^\d+$}`, PublicGetActivityById(app))
	api.Get(`/activities/{id:^\d+$}/form`, PublicActivityForm(app))
	api.Post(`/activities/{id:^\d+$}/registrations`, PublicSubmitRegistration(app))
	api.Get("/events", PublicListEvents(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		// CRUD activity
		r.Post("/activities", CreateActivity(app))
		r.Get("/activities", ListActivities(app))
		r.Get(`/activities/{id:^\d+$}`, GetActivityById(app))
		r.Put(`/activities/{id:^\d+$}`, UpdateActivity(app))
		r.Delete(`/activities/{id:^\d+$}`, DeleteActivity(app))

		// form builder
		r.Get(`/activities/{id:^\d+$}/builder`, ActivityFormBuilder(app))
		r.Post(`/activities/{id:^\d+$}/fields`, AddFormField(app))
		r.Patch(`/activities/{id:^\d+$}/fields/{fieldId}`, UpdateFormField(app))
		r.Delete(`/activities/{id:^\d+$}/fields/{fieldId}`, DeleteFormField(app))
		r.Post(`/activities/{id:^\d+$}/fields/{fieldId}/duplicate`, DuplicateFormField(app))
		r.Post(`/activities/{id:^\d+$}/fields/{fieldId}/move`, MoveFormField(app))

		// registrations
		r.Get(`/activities/{id:^\d+$}/registrations`, GetActivityRegistrations(app))
		r.Get(`/activities/{id:^\d+$}/registrations/export`, ExportActivityRegistrations(app))
		r.Get("/registrations", ListAllRegistrations(app))

		// CRUD event
		r.Post("/events", CreateEvent(app))
		r.Put(`/events/{id:^\d+$}`, UpdateEvent(app))
		r.Delete(`/events/{id:^\d+$}`, DeleteEvent(app))

		// media browser proxy
		r.Get("/media", ListMedia(app))
		r.Post("/media", UploadMedia(app))
		r.Delete("/media/*", DeleteMedia(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}

func servePrivateFiles(path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir("private")))
}
