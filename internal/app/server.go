package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/wojo-o/inker-sub001/internal/browser"
	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/storage"
)

// maxUploadSize caps request bodies carrying image data.
const maxUploadSize = 20 * 1024 * 1024

func (a *App) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/designs", a.handleListDesigns)
	mux.HandleFunc("POST /api/designs", a.handleCreateDesign)
	mux.HandleFunc("GET /api/designs/{id}", a.handleGetDesign)
	mux.HandleFunc("PUT /api/designs/{id}", a.handleUpdateDesign)
	mux.HandleFunc("DELETE /api/designs/{id}", a.handleDeleteDesign)

	mux.HandleFunc("POST /api/designs/{id}/widgets", a.handleAddWidget)
	mux.HandleFunc("PUT /api/widgets/{id}", a.handleUpdateWidget)
	mux.HandleFunc("DELETE /api/widgets/{id}", a.handleDeleteWidget)

	mux.HandleFunc("GET /api/designs/{id}/render", a.handleRender)
	mux.HandleFunc("GET /api/designs/{id}/thumbnail", a.handleThumbnail)
	mux.HandleFunc("PUT /api/designs/{id}/drawing", a.handleSaveDrawing)
	mux.HandleFunc("DELETE /api/designs/{id}/drawing", a.handleDeleteDrawing)

	mux.HandleFunc("POST /api/images/process", a.handleProcessImage)

	mux.HandleFunc("GET /api/devices", a.handleListDevices)
	mux.HandleFunc("POST /api/devices", a.handleRegisterDevice)
	mux.HandleFunc("GET /api/devices/{id}", a.handleGetDevice)
	mux.HandleFunc("DELETE /api/devices/{id}", a.handleDeleteDevice)
	mux.HandleFunc("POST /api/devices/{id}/assign", a.handleAssignDesign)
	mux.HandleFunc("GET /api/devices/{id}/screen", a.handleDeviceScreen)

	mux.HandleFunc("POST /api/custom-widgets", a.handleCreateCustomWidget)
	mux.HandleFunc("GET /api/custom-widgets/{id}", a.handleGetCustomWidget)
	mux.HandleFunc("PUT /api/custom-widgets/{id}/content", a.handlePushContent)
	mux.HandleFunc("DELETE /api/custom-widgets/{id}", a.handleDeleteCustomWidget)

	return mux
}

// ── designs ────────────────────────────────────────────────

func (a *App) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	designs, err := a.designSvc.ListDesigns()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, designs)
}

func (a *App) handleCreateDesign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		Background string `json:"background"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	d, err := a.designSvc.CreateDesign(req.Name, req.Width, req.Height, req.Background)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (a *App) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	d, err := a.designSvc.GetDesign(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *App) handleUpdateDesign(w http.ResponseWriter, r *http.Request) {
	d, err := a.designSvc.GetDesign(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !decodeBody(w, r, d) {
		return
	}
	d.ID = r.PathValue("id")
	if err := a.designSvc.UpdateDesign(d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *App) handleDeleteDesign(w http.ResponseWriter, r *http.Request) {
	if err := a.designSvc.DeleteDesign(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── widgets ────────────────────────────────────────────────

func (a *App) handleAddWidget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind   domain.WidgetKind `json:"kind"`
		X      int               `json:"x"`
		Y      int               `json:"y"`
		Width  int               `json:"width"`
		Height int               `json:"height"`
		Config json.RawMessage   `json:"config"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	wd, err := a.designSvc.AddWidget(r.PathValue("id"), req.Kind, req.X, req.Y, req.Width, req.Height, string(req.Config))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wd)
}

func (a *App) handleUpdateWidget(w http.ResponseWriter, r *http.Request) {
	var wd domain.Widget
	if !decodeBody(w, r, &wd) {
		return
	}
	wd.ID = r.PathValue("id")
	if err := a.designSvc.UpdateWidget(&wd); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wd)
}

func (a *App) handleDeleteWidget(w http.ResponseWriter, r *http.Request) {
	if err := a.designSvc.DeleteWidget(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── rendering ──────────────────────────────────────────────

func (a *App) handleRender(w http.ResponseWriter, r *http.Request) {
	mode := domain.ParseRenderMode(r.URL.Query().Get("mode"))

	var dev *domain.DeviceContext
	if deviceID := r.URL.Query().Get("device"); deviceID != "" {
		d, err := a.deviceSvc.GetDevice(deviceID)
		if err != nil {
			writeError(w, err)
			return
		}
		dev = d.Context()
	}

	data, err := a.renderSvc.RenderDesign(r.Context(), r.PathValue("id"), mode, dev)
	if err != nil {
		writeError(w, err)
		return
	}
	writePNG(w, data)
}

func (a *App) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	data, err := a.renderSvc.RenderPreviewThumbnail(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writePNG(w, data)
}

func (a *App) handleSaveDrawing(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.designSvc.SaveDrawing(r.PathValue("id"), data); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleDeleteDrawing(w http.ResponseWriter, r *http.Request) {
	if err := a.designSvc.DeleteDrawing(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleProcessImage(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := a.renderSvc.ProcessUploadedImage(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writePNG(w, out)
}

// ── devices ────────────────────────────────────────────────

func (a *App) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := a.deviceSvc.ListDevices()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

func (a *App) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		MAC      string `json:"mac"`
		Firmware string `json:"firmware"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	d, err := a.deviceSvc.RegisterDevice(req.Name, req.MAC, req.Firmware)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (a *App) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	d, err := a.deviceSvc.GetDevice(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *App) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	if err := a.deviceSvc.DeleteDevice(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleAssignDesign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DesignID string `json:"designId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DesignID != "" {
		if _, err := a.designSvc.GetDesign(req.DesignID); err != nil {
			writeError(w, err)
			return
		}
	}
	if err := a.deviceSvc.AssignDesign(r.PathValue("id"), req.DesignID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeviceScreen is the endpoint firmware polls. Telemetry rides in
// as query parameters; the response is the device-polarity image for
// the device's assigned design.
func (a *App) handleDeviceScreen(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d, err := a.deviceSvc.ReportState(
		r.PathValue("id"),
		queryInt(q.Get("battery")),
		queryInt(q.Get("wifi")),
		q.Get("fw"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	if d.DesignID == "" {
		http.Error(w, "no design assigned", http.StatusNotFound)
		return
	}

	data, err := a.renderSvc.RenderDesign(r.Context(), d.DesignID, domain.ModeDevice, d.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writePNG(w, data)
}

// ── custom widgets ─────────────────────────────────────────

func (a *App) handleCreateCustomWidget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string          `json:"name"`
		Content json.RawMessage `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	cw, err := a.customSvc.CreateCustomWidget(req.Name, string(req.Content))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cw)
}

func (a *App) handleGetCustomWidget(w http.ResponseWriter, r *http.Request) {
	cw, err := a.customSvc.GetCustomWidget(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cw)
}

func (a *App) handlePushContent(w http.ResponseWriter, r *http.Request) {
	content, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.customSvc.PushContent(r.PathValue("id"), string(content)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleDeleteCustomWidget(w http.ResponseWriter, r *http.Request) {
	if err := a.customSvc.DeleteCustomWidget(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── helpers ────────────────────────────────────────────────

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(v); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http: encode response: %v", err)
	}
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, browser.ErrCaptureFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func queryInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
