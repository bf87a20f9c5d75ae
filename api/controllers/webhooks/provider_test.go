package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	providerwebhook "github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/webhooks"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
)

const testSecret = "wh-secret"

type stubWebhookService struct {
	status string
	err    error
	events []providerwebhook.Event
}

func (s *stubWebhookService) Handle(ctx context.Context, event providerwebhook.Event) (string, error) {
	s.events = append(s.events, event)
	if s.err != nil {
		return "failed", s.err
	}
	return s.status, nil
}

type stubGuard struct {
	duplicate bool
	checkErr  error
	marked    []string
	deleted   []string
}

func (g *stubGuard) CheckAndMark(ctx context.Context, eventKey string) (bool, error) {
	if g.checkErr != nil {
		return false, g.checkErr
	}
	g.marked = append(g.marked, eventKey)
	return g.duplicate, nil
}

func (g *stubGuard) Delete(ctx context.Context, eventKey string) error {
	g.deleted = append(g.deleted, eventKey)
	return nil
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func eventPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(providerwebhook.Event{
		EventType:    providerwebhook.EventVehicleUpdated,
		VehicleID:    "MTL-100",
		AdvertiserID: "adv-1",
		Timestamp:    "2026-03-01T06:00:00Z",
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return payload
}

func postEvent(t *testing.T, handler http.HandlerFunc, payload []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/provider", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestProviderWebhookRejectsMissingSignature(t *testing.T) {
	svc := &stubWebhookService{status: "success"}
	handler := ProviderWebhook(svc, testSecret, &stubGuard{}, quietLogger())

	rec := postEvent(t, handler, eventPayload(t), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without signature, got %d", rec.Code)
	}
	if len(svc.events) != 0 {
		t.Fatalf("service must not run for unsigned payloads")
	}
}

func TestProviderWebhookRejectsBadSignature(t *testing.T) {
	svc := &stubWebhookService{status: "success"}
	handler := ProviderWebhook(svc, testSecret, &stubGuard{}, quietLogger())

	rec := postEvent(t, handler, eventPayload(t), sign(eventPayload(t), "other-secret"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong signature, got %d", rec.Code)
	}
	if len(svc.events) != 0 {
		t.Fatalf("service must not run for forged payloads")
	}
}

func TestProviderWebhookRejectsMalformedPayload(t *testing.T) {
	payload := []byte("{not json")
	handler := ProviderWebhook(&stubWebhookService{status: "success"}, testSecret, &stubGuard{}, quietLogger())

	rec := postEvent(t, handler, payload, sign(payload, testSecret))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed payload, got %d", rec.Code)
	}
}

func TestProviderWebhookRejectsUnknownEventType(t *testing.T) {
	payload, _ := json.Marshal(providerwebhook.Event{EventType: "vehicle.archived", VehicleID: "MTL-100"})
	handler := ProviderWebhook(&stubWebhookService{status: "success"}, testSecret, &stubGuard{}, quietLogger())

	rec := postEvent(t, handler, payload, sign(payload, testSecret))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown event type, got %d", rec.Code)
	}
}

func TestProviderWebhookAcksDuplicateWithoutProcessing(t *testing.T) {
	svc := &stubWebhookService{status: "success"}
	guard := &stubGuard{duplicate: true}
	handler := ProviderWebhook(svc, testSecret, guard, quietLogger())

	payload := eventPayload(t)
	rec := postEvent(t, handler, payload, sign(payload, testSecret))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate delivery, got %d", rec.Code)
	}
	if len(svc.events) != 0 {
		t.Fatalf("duplicate delivery must not reach the service")
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("duplicate")) {
		t.Fatalf("expected duplicate ack body, got %s", rec.Body.String())
	}
}

func TestProviderWebhookProcessesSignedEvent(t *testing.T) {
	svc := &stubWebhookService{status: "success"}
	guard := &stubGuard{}
	handler := ProviderWebhook(svc, testSecret, guard, quietLogger())

	payload := eventPayload(t)
	rec := postEvent(t, handler, payload, sign(payload, testSecret))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.events) != 1 {
		t.Fatalf("expected one handled event, got %d", len(svc.events))
	}
	if svc.events[0].VehicleID != "MTL-100" {
		t.Fatalf("unexpected event: %+v", svc.events[0])
	}
	if len(guard.marked) != 1 {
		t.Fatalf("expected the idempotency marker to be set")
	}
	if len(guard.deleted) != 0 {
		t.Fatalf("marker must survive a successful delivery")
	}
}

func TestProviderWebhookClearsMarkerOnFailure(t *testing.T) {
	svc := &stubWebhookService{err: errors.New("store down")}
	guard := &stubGuard{}
	handler := ProviderWebhook(svc, testSecret, guard, quietLogger())

	payload := eventPayload(t)
	rec := postEvent(t, handler, payload, sign(payload, testSecret))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on processing failure, got %d", rec.Code)
	}
	if len(guard.deleted) != 1 {
		t.Fatalf("expected the idempotency marker to be cleared so retries get through")
	}
}
