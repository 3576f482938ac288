package webhooks

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/sortezap/sortezap-backend/api/responses"
	"github.com/sortezap/sortezap-backend/internal/webhooks"
	"github.com/sortezap/sortezap-backend/pkg/logger"
)

// maxPayloadBytes caps what is read from a delivery body.
const maxPayloadBytes = 64 * 1024

// LiraPayWebhook receives transaction status deliveries. The gateway
// retries on anything other than 200, so every delivery is acknowledged:
// malformed bodies are logged and dropped, never rejected.
func LiraPayWebhook(svc *webhooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
		if err != nil {
			if logg != nil {
				logg.Warn(ctx, "webhook body read failed, acknowledged anyway")
			}
			responses.WriteSuccess(w, map[string]string{"status": "received"})
			return
		}

		var payload webhooks.Payload
		if err := json.Unmarshal(body, &payload); err != nil {
			if logg != nil {
				logg.Warn(ctx, "webhook payload not parseable, acknowledged anyway")
			}
			responses.WriteSuccess(w, map[string]string{"status": "received"})
			return
		}

		if svc != nil {
			svc.Process(ctx, payload)
		}
		responses.WriteSuccess(w, map[string]string{"status": "received"})
	}
}
