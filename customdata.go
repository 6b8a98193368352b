package invitepdf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// storageKeyPrefix namespaces injected state in the page's localStorage.
const storageKeyPrefix = "invitation_customizer:"

// customizerPayload is the JSON shape the client application reads back
// from storage after the reload.
type customizerPayload struct {
	CustomizerData map[string]any `json:"customizerData"`
	TouchedFields  []string       `json:"touchedFields"`
	Mode           string         `json:"mode"`
	Timestamp      int64          `json:"timestamp"`
}

const writeStorageJS = `(key, payload) => {
	localStorage.setItem(key, payload);
	return true;
}`

// dispatchSyncEventsJS coaxes frameworks that only observe resize or
// storage events into re-reading the injected state.
const dispatchSyncEventsJS = `() => {
	window.dispatchEvent(new Event('resize'));
	window.dispatchEvent(new Event('storage'));
	return true;
}`

// injectCustomData pre-seeds client-side editable state before capture:
// it serializes the payload into localStorage under a key derived from
// the URL, reloads so the client application picks it up, waits a short
// settle period, and dispatches synthetic sync events.
func (s *Service) injectCustomData(ctx context.Context, logger *zap.Logger, page pageDriver, req RenderRequest) error {
	payload := customizerPayload{
		CustomizerData: req.CustomData,
		TouchedFields:  touchedFields(req.CustomData),
		Mode:           "basic",
		Timestamp:      time.Now().UnixMilli(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding custom data: %w", err)
	}

	key := storageKeyFor(req.URL)
	if _, err := page.Eval(ctx, writeStorageJS, key, string(raw)); err != nil {
		return fmt.Errorf("injecting custom data: %w", err)
	}
	logger.Debug("custom data injected",
		zap.String("storage_key", key),
		zap.Int("touched", len(payload.TouchedFields)))

	if err := page.Reload(ctx); err != nil {
		return err
	}
	if err := sleepCtx(ctx, s.cfg.tuning.SettleWait); err != nil {
		return err
	}
	if _, err := page.Eval(ctx, dispatchSyncEventsJS); err != nil {
		logger.Warn("sync events not dispatched", zap.Error(err))
	}
	return nil
}

// storageKeyFor derives a deterministic storage key from the invitation
// identifier embedded in the URL (its trailing path segment).
func storageKeyFor(rawURL string) string {
	slug := "default"
	if u, err := url.Parse(rawURL); err == nil {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i := len(segments) - 1; i >= 0; i-- {
			if segments[i] != "" {
				slug = segments[i]
				break
			}
		}
	}
	return storageKeyPrefix + slug
}

// touchedFields returns the keys whose values are meaningful enough to
// mark as user-provided: non-empty strings, every number (zero included),
// and every boolean (false included). Empty strings and anything else are
// excluded.
func touchedFields(data map[string]any) []string {
	touched := make([]string, 0, len(data))
	for key, value := range data {
		if meaningful(value) {
			touched = append(touched, key)
		}
	}
	slices.Sort(touched)
	return touched
}

func meaningful(value any) bool {
	switch v := value.(type) {
	case string:
		return v != ""
	case bool:
		return true
	case float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return true
	default:
		return false
	}
}
