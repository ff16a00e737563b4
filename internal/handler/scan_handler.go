package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"go-store-pos/internal/scan"
	"go-store-pos/internal/service"

	"github.com/gofiber/contrib/websocket"
)

// scanSessionTimeout bounds how long a camera session may run without a
// successful decode before the server gives up.
const scanSessionTimeout = time.Minute

type ScanHandler struct {
	catalog service.CatalogService
}

func NewScanHandler(catalog service.CatalogService) *ScanHandler {
	return &ScanHandler{catalog: catalog}
}

// Feed handles one scan session over a websocket. The client streams decode
// events frame by frame; the server answers with the catalog resolution of
// the first decoded barcode and then closes the session.
// GET /ws/scan
func (h *ScanHandler) Feed(conn *websocket.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), scanSessionTimeout)
	defer cancel()

	events := make(chan scan.Event)
	go func() {
		defer close(events)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var ev scan.Event
			if err := json.Unmarshal(msg, &ev); err != nil {
				// Malformed frames are treated as decode noise.
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	barcode, err := scan.FirstHit(ctx, events)
	if err != nil {
		writeScanError(conn, err)
		return
	}

	resolution, err := h.catalog.Resolve(barcode)
	if err != nil {
		writeScanError(conn, err)
		return
	}

	if err := conn.WriteJSON(resolution); err != nil {
		log.Printf("scan: failed to write resolution: %v", err)
	}
}

func writeScanError(conn *websocket.Conn, err error) {
	var fatal *scan.FatalError
	msg := map[string]string{"error": err.Error()}
	switch {
	case errors.As(err, &fatal):
		msg["reason"] = fatal.Reason
	case errors.Is(err, context.DeadlineExceeded):
		msg["error"] = "scan session timed out"
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("scan: failed to write error: %v", err)
	}
}
