package webhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/api/responses"
	providerwebhook "github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/webhooks"
	pkgerrors "github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/errors"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
)

const signatureHeader = "X-Webhook-Signature"

// ProviderWebhookService applies one provider event.
type ProviderWebhookService interface {
	Handle(ctx context.Context, event providerwebhook.Event) (string, error)
}

type webhookGuard interface {
	CheckAndMark(ctx context.Context, eventKey string) (bool, error)
	Delete(ctx context.Context, eventKey string) error
}

type webhookAck struct {
	Status string `json:"status"`
}

// ProviderWebhook receives vehicle lifecycle notifications from the listings
// provider. Payloads are HMAC-verified before anything is parsed; redelivered
// events are acknowledged without reprocessing.
func ProviderWebhook(svc ProviderWebhookService, signingSecret string, guard webhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil || guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		signature := r.Header.Get(signatureHeader)
		if signature == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature missing"))
			return
		}
		if !validateSignature(payload, signingSecret, signature) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
			return
		}

		var event providerwebhook.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed event payload"))
			return
		}
		if err := event.Validate(); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event"))
			return
		}

		eventKey := event.IdempotencyKey()
		alreadyProcessed, err := guard.CheckAndMark(ctx, eventKey)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
			return
		}
		if alreadyProcessed {
			responses.WriteSuccess(w, webhookAck{Status: "duplicate"})
			return
		}

		status, err := svc.Handle(ctx, event)
		if err != nil {
			// Clear the marker so the provider's retry is not swallowed.
			_ = guard.Delete(ctx, eventKey)
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply event"))
			return
		}

		responses.WriteSuccess(w, webhookAck{Status: status})
	}
}

func validateSignature(payload []byte, secret, header string) bool {
	if header == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}
