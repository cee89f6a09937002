package tesis_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tesisarchive/tesis-service/internal/config"
	"github.com/tesisarchive/tesis-service/internal/staging"
	"github.com/tesisarchive/tesis-service/internal/tesis"
	"github.com/tesisarchive/tesis-service/pkg/routes"
)

type handlerFixture struct {
	store      *fakeStore
	engine     *fakeEngine
	stagingDir string
	handler    http.Handler
}

func newFixture(t *testing.T, store *fakeStore) *handlerFixture {
	t.Helper()

	dir := t.TempDir()
	stg, err := staging.New(&config.StorageConfig{StagingDir: dir}, discardLogger())
	if err != nil {
		t.Fatalf("staging.New() error = %v", err)
	}

	engine := &fakeEngine{text: "texto reconocido"}
	pipeline := tesis.NewPipeline(
		store,
		&fakeAutores{},
		engine,
		&fakeSynthesizer{output: []byte("%PDF-1.4 synthesized")},
		discardLogger(),
	)

	h := tesis.NewHandler(store, pipeline, stg, discardLogger(), 64<<20)

	return &handlerFixture{
		store:      store,
		engine:     engine,
		stagingDir: dir,
		handler:    routes.Build(nil, []routes.Group{h.Routes()}),
	}
}

func (f *handlerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *handlerFixture) assertStagingEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.stagingDir)
	if err != nil {
		t.Fatalf("read staging dir: %v", err)
	}
	for _, e := range entries {
		t.Errorf("staged file left behind: %s", filepath.Join(f.stagingDir, e.Name()))
	}
}

func depositForm() map[string]string {
	return map[string]string{
		"id_tesis":      "1001",
		"nombre":        "Tesis X",
		"id_estudiante": "55",
		"id_tutor":      "3",
		"id_encargado":  "4",
		"fecha":         "2024-11-20",
		"id_sede":       "2",
		"estado":        "entregada",
	}
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileField, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(data)
	}
	mw.Close()

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandlerUpload(t *testing.T) {
	f := newFixture(t, &fakeStore{existing: map[int]bool{}})

	content := []byte("%PDF-1.4 uploaded")
	rec := f.do(multipartRequest(t, "POST", "/tesis", depositForm(), "archivo_pdf", "tesis.pdf", content))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var receipt tesis.Receipt
	if err := json.NewDecoder(rec.Body).Decode(&receipt); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if receipt.IDTesis != 1001 {
		t.Errorf("receipt.IDTesis = %d, want 1001", receipt.IDTesis)
	}

	if len(f.store.inserts) != 1 || !bytes.Equal(f.store.inserts[0].archivo, content) {
		t.Error("store did not receive the uploaded bytes")
	}

	f.assertStagingEmpty(t)
}

func TestHandlerUploadValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fields map[string]string)
	}{
		{"non-integer id_tesis", func(f map[string]string) { f["id_tesis"] = "abc" }},
		{"non-integer id_estudiante", func(f map[string]string) { f["id_estudiante"] = "abc" }},
		{"missing id_tesis", func(f map[string]string) { delete(f, "id_tesis") }},
		{"missing id_estudiante", func(f map[string]string) { delete(f, "id_estudiante") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &fakeStore{existing: map[int]bool{}})

			fields := depositForm()
			tt.mutate(fields)

			rec := f.do(multipartRequest(t, "POST", "/tesis", fields, "archivo_pdf", "tesis.pdf", []byte("%PDF")))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if len(f.store.inserts) != 0 {
				t.Errorf("inserts = %d, want 0", len(f.store.inserts))
			}

			f.assertStagingEmpty(t)
		})
	}
}

func TestHandlerUploadMissingFile(t *testing.T) {
	f := newFixture(t, &fakeStore{existing: map[int]bool{}})

	rec := f.do(multipartRequest(t, "POST", "/tesis", depositForm(), "", "", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlerUploadConflict(t *testing.T) {
	f := newFixture(t, &fakeStore{existing: map[int]bool{1001: true}})

	rec := f.do(multipartRequest(t, "POST", "/tesis", depositForm(), "archivo_pdf", "tesis.pdf", []byte("%PDF")))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	f.assertStagingEmpty(t)
}

func TestHandlerDigitize(t *testing.T) {
	f := newFixture(t, &fakeStore{existing: map[int]bool{}})

	rec := f.do(multipartRequest(t, "POST", "/tesis/digital", depositForm(), "archivo", "scan.png", []byte("image bytes")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	if f.engine.calls != 1 {
		t.Errorf("engine calls = %d, want 1", f.engine.calls)
	}
	if len(f.store.inserts) != 1 {
		t.Errorf("inserts = %d, want 1", len(f.store.inserts))
	}

	f.assertStagingEmpty(t)
}

func TestHandlerDigitizeValidationSkipsOCR(t *testing.T) {
	f := newFixture(t, &fakeStore{existing: map[int]bool{}})

	fields := depositForm()
	fields["id_estudiante"] = "abc"

	rec := f.do(multipartRequest(t, "POST", "/tesis/digital", fields, "archivo", "scan.png", []byte("image bytes")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if f.engine.calls != 0 {
		t.Errorf("engine calls = %d, want 0", f.engine.calls)
	}
	if len(f.store.inserts) != 0 {
		t.Errorf("inserts = %d, want 0", len(f.store.inserts))
	}
}

func TestHandlerFind(t *testing.T) {
	record := tesis.Tesis{ID: 7, Nombre: "Tesis X", Fecha: "2024-11-20", Estado: "entregada"}
	f := newFixture(t, &fakeStore{theses: []tesis.Tesis{record}})

	rec := f.do(httptest.NewRequest("GET", "/tesis/7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var result []tesis.Tesis
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result) != 1 || result[0] != record {
		t.Errorf("result = %+v, want [%+v]", result, record)
	}
}

func TestHandlerFindAbsentIsEmptyNotError(t *testing.T) {
	f := newFixture(t, &fakeStore{})

	rec := f.do(httptest.NewRequest("GET", "/tesis/999", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var result []tesis.Tesis
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("result = %+v, want empty array", result)
	}
}

func TestHandlerFindBadID(t *testing.T) {
	f := newFixture(t, &fakeStore{})

	rec := f.do(httptest.NewRequest("GET", "/tesis/abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlerSearch(t *testing.T) {
	f := newFixture(t, &fakeStore{theses: []tesis.Tesis{
		{ID: 1, Nombre: "Redes neuronales"},
		{ID: 2, Nombre: "Bases de datos"},
	}})

	rec := f.do(httptest.NewRequest("GET", "/tesis/cadena/redes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var result []tesis.Tesis
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result) != 1 || result[0].ID != 1 {
		t.Errorf("result = %+v, want the single matching row", result)
	}
}

func TestHandlerSearchNoMatchIsNotFound(t *testing.T) {
	f := newFixture(t, &fakeStore{theses: []tesis.Tesis{{ID: 1, Nombre: "Redes neuronales"}}})

	rec := f.do(httptest.NewRequest("GET", "/tesis/cadena/zzz", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandlerDownload(t *testing.T) {
	content := []byte("%PDF-1.4 stored document")
	f := newFixture(t, &fakeStore{download: map[int][]byte{7: content}})

	rec := f.do(httptest.NewRequest("GET", "/tesis/7/download", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=tesis_7.pdf" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), content) {
		t.Error("downloaded bytes differ from stored content")
	}
}

func TestHandlerDownloadAbsent(t *testing.T) {
	f := newFixture(t, &fakeStore{download: map[int][]byte{}})

	rec := f.do(httptest.NewRequest("GET", "/tesis/8/download", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandlerUpdate(t *testing.T) {
	f := newFixture(t, &fakeStore{})

	rec := f.do(multipartRequest(t, "PUT", "/tesis/1001", map[string]string{"estado": "aprobada"}, "", "", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	if len(f.store.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(f.store.updates))
	}
	cmd := f.store.updates[0]
	if cmd.Estado == nil || *cmd.Estado != "aprobada" {
		t.Errorf("Estado = %v, want aprobada", cmd.Estado)
	}
	if cmd.Nombre != nil || cmd.Fecha != nil {
		t.Errorf("unexpected fields set: nombre=%v fecha=%v", cmd.Nombre, cmd.Fecha)
	}
	if len(cmd.Archivo) != 0 {
		t.Error("document replaced without a new file")
	}
}

func TestHandlerUpdateWithDocument(t *testing.T) {
	f := newFixture(t, &fakeStore{})

	replacement := []byte("%PDF-1.4 replacement")
	rec := f.do(multipartRequest(t, "PUT", "/tesis/1001", map[string]string{"nombre": "Nuevo nombre"}, "archivo_pdf", "nuevo.pdf", replacement))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	if len(f.store.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(f.store.updates))
	}
	if !bytes.Equal(f.store.updates[0].Archivo, replacement) {
		t.Error("replacement bytes not forwarded to store")
	}
}

func TestHandlerUpdateNotFound(t *testing.T) {
	f := newFixture(t, &fakeStore{updateErr: tesis.ErrNotFound})

	rec := f.do(multipartRequest(t, "PUT", "/tesis/99", map[string]string{"estado": "aprobada"}, "", "", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandlerDelete(t *testing.T) {
	f := newFixture(t, &fakeStore{})

	rec := f.do(httptest.NewRequest("DELETE", "/tesis/7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if len(f.store.deleted) != 1 || f.store.deleted[0] != 7 {
		t.Errorf("deleted = %v, want [7]", f.store.deleted)
	}
}

func TestHandlerDeleteNotFound(t *testing.T) {
	f := newFixture(t, &fakeStore{deleteErr: tesis.ErrNotFound})

	rec := f.do(httptest.NewRequest("DELETE", "/tesis/99", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
