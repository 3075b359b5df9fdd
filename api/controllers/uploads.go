package controllers

import (
	"net/http"

	"github.com/absolutepools/aquatrack-backend/api/responses"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
	"github.com/absolutepools/aquatrack-backend/pkg/uploads"

	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
)

// UploadFile accepts one multipart file and returns the stored URL.
func UploadFile(store uploads.Store, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload store unavailable"))
			return
		}

		maxBytes := int64(maxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file exceeds upload limit"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "multipart field 'file' required"))
			return
		}
		defer file.Close()

		url, err := store.Save(r.Context(), header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store upload"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"file_url": url})
	}
}
