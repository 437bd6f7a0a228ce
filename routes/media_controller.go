package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/club-site/app"
	"github.com/mbolis/club-site/httpx"
	"github.com/mbolis/club-site/log"
	"github.com/mbolis/club-site/storage"
)

// The media endpoints proxy the storage provider's privileged search and
// delete API, so the secret key never reaches the browser.

func ListMedia(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folder := r.URL.Query().Get("folder")
		if folder != "" && !storage.ValidSubfolder(folder) {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "media.folder",
				"unknown folder %q", folder)
			return
		}

		assets, err := app.Storage.List(r.Context(), folder)
		if err != nil {
			httpx.LogInternalError(w, "storage.list", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"images": assets,
		})
	}
}

func UploadMedia(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseMultipartForm(maxUploadMemory)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		folder := r.FormValue("folder")
		if folder == "" {
			folder = "general"
		}
		if !storage.ValidSubfolder(folder) {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "media.folder",
				"unknown folder %q", folder)
			return
		}

		files := r.MultipartForm.File["file"]
		if len(files) == 0 {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "media.file",
				"missing file")
			return
		}

		asset, err := app.Storage.Upload(r.Context(), files[0], folder)
		if err != nil {
			httpx.LogInternalError(w, "storage.upload", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, asset)
	}
}

func DeleteMedia(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		publicId := chi.URLParam(r, "*")
		if publicId == "" {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "media.public_id")
			return
		}

		err := app.Storage.Delete(r.Context(), publicId)
		if err != nil {
			httpx.LogInternalError(w, "storage.delete", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"success": true,
		})
	}
}
