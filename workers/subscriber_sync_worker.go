// workers/subscriber_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"wellness-dashboard-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MirroredSubscriber matches the JSON response from the CRM sync service.
type MirroredSubscriber struct {
	ID             string    `json:"id"`
	ExternalUserID string    `json:"external_user_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Subscribed     bool      `json:"subscribed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GetSubscriberChangesResponse is the top-level structure of the CRM response.
type GetSubscriberChangesResponse struct {
	Subscribers []MirroredSubscriber `json:"subscribers"`
}

// SubscriberSyncWorker mirrors the CRM's subscriber list into the local
// subscribers table so newsletter sends never block on the CRM.
type SubscriberSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string // e.g., "http://localhost:8600"
	endpointPath string // e.g., "/api/v1/public/subscribers"
	serviceToken string
	httpClient   *http.Client
}

func NewSubscriberSyncWorker(db *gorm.DB, crmBaseURL, endpointPath, serviceToken string) *SubscriberSyncWorker {
	return &SubscriberSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      crmBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *SubscriberSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Subscriber Sync Worker (CRM → subscribers)…")
	go w.run(ctx)
}

func (w *SubscriberSyncWorker) run(ctx context.Context) {
	// Initial sync (backfill if needed) - sync from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial subscriber sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Incremental syncs use the last update time from the local table
			lastSyncTime := w.getLastSyncTime()
			if err := w.syncBatch(ctx, lastSyncTime); err != nil {
				log.Printf("❌ Subscriber sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Subscriber Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt from the local subscribers table.
func (w *SubscriberSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM subscribers").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0) // Fallback to epoch if no records or error
	}
	return lastTime
}

// syncBatch fetches subscriber changes from the CRM and bulk-upserts them.
func (w *SubscriberSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339) // Normalize to UTC for consistency

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid CRM sync base URL '%s': %w", w.baseURL, err)
	}

	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	log.Printf("[SYNC] ➡️  GET %s", finalURL)

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}

	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to CRM sync service failed: %w", err)
	}
	defer func() {
		// Always drain & close to prevent connection leaks
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("CRM sync service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response GetSubscriberChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode CRM sync response: %w", err)
	}

	if len(response.Subscribers) == 0 {
		log.Printf("[SYNC] ✅ No subscriber changes received since %s", sinceStr)
		return nil
	}

	subscribers := make([]models.Subscriber, 0, len(response.Subscribers))
	for _, remote := range response.Subscribers {
		subscribers = append(subscribers, models.Subscriber{
			ExternalUserID: remote.ExternalUserID,
			Email:          remote.Email,
			Name:           remote.Name,
			Subscribed:     remote.Subscribed,
			CreatedAt:      remote.CreatedAt,
			UpdatedAt:      remote.UpdatedAt,
		})
	}

	// Batch upsert using GORM's Create with OnConflict (one statement on Postgres)
	if err := w.db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}}, // unique constraint target
			DoUpdates: clause.AssignmentColumns([]string{
				"external_user_id",
				"name",
				"subscribed",
				"created_at",
				"updated_at",
			}),
		},
	).Create(&subscribers).Error; err != nil {
		return fmt.Errorf("failed to upsert %d subscriber(s): %w", len(subscribers), err)
	}

	log.Printf("[SYNC] ✅ Upserted %d subscriber(s) from CRM", len(subscribers))
	return nil
}
