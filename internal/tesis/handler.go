package tesis

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/tesisarchive/tesis-service/internal/staging"
	"github.com/tesisarchive/tesis-service/pkg/handlers"
	"github.com/tesisarchive/tesis-service/pkg/routes"
)

// Handler provides HTTP endpoints for thesis operations. Uploads are staged
// to disk before the ingestion pipeline runs; the pipeline owns the staged
// file from that point on.
type Handler struct {
	sys           System
	pipeline      *Pipeline
	staging       *staging.System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a thesis handler with the specified configuration.
func NewHandler(sys System, pipeline *Pipeline, stg *staging.System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		pipeline:      pipeline,
		staging:       stg,
		logger:        logger.With("handler", "tesis"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the thesis endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/tesis",
		Description: "Thesis records and documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/cadena/{nombre}", Handler: h.Search},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/download", Handler: h.Download},
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "POST", Pattern: "/digital", Handler: h.Digitize},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a JSON array with zero or one metadata rows. A missing id is
// an empty result, not an error; Search keeps the opposite policy.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	t, err := h.sys.Find(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		handlers.RespondJSON(w, http.StatusOK, []Tesis{})
		return
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, []Tesis{*t})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	fragment := strings.TrimSpace(r.PathValue("nombre"))
	if fragment == "" {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	result, err := h.sys.Search(r.Context(), fragment)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	archivo, err := h.sys.Download(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=tesis_%d.pdf", id))
	w.Write(archivo)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	staged, cmd, err := h.stage(r, "archivo_pdf")
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	receipt, err := h.pipeline.Upload(r.Context(), cmd, staged)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, receipt)
}

func (h *Handler) Digitize(w http.ResponseWriter, r *http.Request) {
	staged, cmd, err := h.stage(r, "archivo")
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	receipt, err := h.pipeline.Digitize(r.Context(), cmd, staged)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, receipt)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrTooLarge)
		return
	}

	cmd := UpdateCommand{
		Nombre: formField(r, "nombre"),
		Fecha:  formField(r, "fecha"),
		Estado: formField(r, "estado"),
	}

	file, header, err := r.FormFile("archivo_pdf")
	switch {
	case err == nil:
		defer file.Close()
		if header.Size > h.maxUploadSize {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrTooLarge)
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: read file: %v", ErrValidation, err))
			return
		}
		cmd.Archivo = data
	case errors.Is(err, http.ErrMissingFile):
		// Metadata-only update; the stored document is kept.
	default:
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrValidation, err))
		return
	}

	if err := h.sys.Update(r.Context(), id, cmd); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{"message": "thesis updated"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{"message": "thesis deleted"})
}

// stage validates the multipart request and writes the uploaded file into
// the staging area. On success the caller's pipeline owns the staged file.
func (h *Handler) stage(r *http.Request, fileField string) (*staging.File, DepositCommand, error) {
	var cmd DepositCommand

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, cmd, ErrTooLarge
	}

	cmd, err := depositFromForm(r)
	if err != nil {
		return nil, cmd, err
	}

	file, header, err := r.FormFile(fileField)
	if err != nil {
		return nil, cmd, fmt.Errorf("%w: file field %q required", ErrValidation, fileField)
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		return nil, cmd, ErrTooLarge
	}

	staged, err := h.staging.Stage(file, header.Filename)
	if err != nil {
		return nil, cmd, fmt.Errorf("stage upload: %w", err)
	}
	return staged, cmd, nil
}

func depositFromForm(r *http.Request) (DepositCommand, error) {
	var cmd DepositCommand

	id, err := formInt(r, "id_tesis", true)
	if err != nil {
		return cmd, err
	}
	estudiante, err := formInt(r, "id_estudiante", true)
	if err != nil {
		return cmd, err
	}
	tutor, err := formInt(r, "id_tutor", false)
	if err != nil {
		return cmd, err
	}
	encargado, err := formInt(r, "id_encargado", false)
	if err != nil {
		return cmd, err
	}
	sede, err := formInt(r, "id_sede", false)
	if err != nil {
		return cmd, err
	}

	cmd = DepositCommand{
		ID:           id,
		Nombre:       r.FormValue("nombre"),
		IDEstudiante: estudiante,
		IDTutor:      tutor,
		IDEncargado:  encargado,
		Fecha:        r.FormValue("fecha"),
		IDSede:       sede,
		Estado:       r.FormValue("estado"),
	}
	return cmd, nil
}

func formInt(r *http.Request, field string, required bool) (int, error) {
	value := r.FormValue(field)
	if value == "" {
		if required {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrValidation, field)
		}
		return 0, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrValidation, field)
	}
	return n, nil
}

func formField(r *http.Request, field string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, fmt.Errorf("%w: id must be an integer", ErrValidation)
	}
	return id, nil
}
