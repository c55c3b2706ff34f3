package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"turbine_optimizer/internal/clean"
	"turbine_optimizer/internal/ingest"
	"turbine_optimizer/internal/model"
	"turbine_optimizer/internal/optimize"
	"turbine_optimizer/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler manages WebSocket connections and runs analyses on uploaded
// datasets. Datasets are cleaned once at upload; every analysis:run message
// is a fresh, self-contained computation over the stored table.
type Handler struct {
	hub      *Hub
	store    *store.Store
	defaults optimize.Config
}

func NewHandler(hub *Hub, st *store.Store, defaults optimize.Config) *Handler {
	return &Handler{hub: hub, store: st, defaults: defaults}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	go client.writePump()

	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		h.handleMessage(c, msg)
	}
}

func (h *Handler) handleMessage(c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		log.Printf("Invalid message: %v", err)
		return
	}

	switch env.Type {
	case TypeDataUpload:
		var p DataUploadPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Invalid data:upload payload: %v", err)
			return
		}
		h.handleUpload(c, p)

	case TypeDataClear:
		var p DataClearPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Invalid data:clear payload: %v", err)
			return
		}
		h.store.Delete(p.Name)

	case TypeAnalysisRun:
		var p AnalysisRunPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Invalid analysis:run payload: %v", err)
			return
		}
		h.handleAnalysis(c, p)

	default:
		log.Printf("Unknown message type: %s", env.Type)
	}
}

func (h *Handler) handleUpload(c *Client, p DataUploadPayload) {
	parser := &ingest.TurbineCSVParser{}
	raw, err := parser.Parse(strings.NewReader(p.CSV))
	if err != nil {
		h.sendError(c, p.Name, err)
		return
	}

	cleaned, report, err := clean.Clean(raw)
	if err != nil {
		h.sendError(c, p.Name, err)
		return
	}

	h.store.Put(p.Name, cleaned)
	log.Printf("Dataset %q loaded: %d of %d rows kept", p.Name, report.RowsOut, report.RowsIn)

	h.sendPayload(c, TypeDataLoaded, DataLoadedFromReport(p.Name, cleaned, report))
}

func (h *Handler) handleAnalysis(c *Client, p AnalysisRunPayload) {
	t, ok := h.store.Get(p.Name)
	if !ok {
		h.sendError(c, p.Name, &model.ValidationError{Detail: fmt.Sprintf("no dataset uploaded under name %q", p.Name)})
		return
	}

	cfg := h.defaults
	if p.WindSpeedThreshold != nil {
		cfg.WindSpeedThresholdMS = *p.WindSpeedThreshold
	}
	if p.YawAngleRange != nil {
		cfg.YawAngleRangeDeg = *p.YawAngleRange
	}
	if p.PitchAngleRange != nil {
		cfg.PitchAngleRangeDeg = *p.PitchAngleRange
	}

	result, err := optimize.Optimize(t, cfg)
	if err != nil {
		h.sendError(c, p.Name, err)
		return
	}

	payload := AnalysisResultPayload{
		Name:                p.Name,
		YawAngle:            result.Params.YawAngle,
		PitchAngle:          result.Params.PitchAngle,
		ExpectedGainPercent: result.GainPercent,
	}

	// Metrics need power_output data; an analysis-only dataset still gets
	// the optimization result.
	current, optimized, err := optimize.Compare(t, result.Params)
	switch {
	case err == nil:
		payload.Current = MetricsFromSnapshot(current)
		payload.Optimized = MetricsFromSnapshot(optimized)
	case errors.Is(err, model.ErrValidation):
		log.Printf("Dataset %q: metrics unavailable: %v", p.Name, err)
	default:
		h.sendError(c, p.Name, err)
		return
	}

	h.sendPayload(c, TypeAnalysisResult, payload)
}

func (h *Handler) sendPayload(c *Client, msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		log.Printf("Error marshaling %s: %v", msgType, err)
		return
	}
	c.trySend(msg)
}

func (h *Handler) sendError(c *Client, name string, err error) {
	h.sendPayload(c, TypeAnalysisError, AnalysisErrorPayload{Name: name, Message: err.Error()})
}
