package watch

import (
	"context"
	"fmt"
	"log"
	"time"

	"resolveit/internal/api"
	"resolveit/internal/complaint"
	"resolveit/internal/config"
	rerrors "resolveit/internal/errors"
	"resolveit/internal/health"
	"resolveit/internal/lifecycle"
	"resolveit/internal/storage"
	"resolveit/internal/summary"
	"resolveit/internal/telegram"
)

// Watcher polls the backend for complaint changes and pushes Telegram
// notifications for anything new, changed, or resolved.
type Watcher struct {
	cfg     *config.Config
	client  *api.Client
	store   *storage.Storage
	tg      *telegram.Client
	monitor *health.Monitor
}

// New creates a Watcher. tg may be nil, which disables notifications but
// keeps the poll loop and health endpoint running.
func New(cfg *config.Config, client *api.Client, store *storage.Storage, tg *telegram.Client, monitor *health.Monitor) *Watcher {
	return &Watcher{
		cfg:     cfg,
		client:  client,
		store:   store,
		tg:      tg,
		monitor: monitor,
	}
}

// Run starts the watch loop and blocks until ctx is cancelled.
//
// Startup:
//  1. Login with retry (credentials come from config)
//  2. Start the Telegram callback handler
//  3. Run one poll cycle immediately
//  4. Tick every PollInterval; optional admin sweep tickers alongside
func (w *Watcher) Run(ctx context.Context) error {
	log.Println("🔐 Attempting to login...")
	if err := w.loginWithRetry(ctx); err != nil {
		return fmt.Errorf("login failed after %d attempts: %w", w.cfg.MaxLoginRetries, err)
	}
	log.Println("✓ Login successful")

	if w.tg != nil {
		go w.tg.HandleUpdates(ctx, w.client, w.store)
	}

	log.Println("📬 Running initial poll...")
	if err := w.pollWithRetry(ctx); err != nil {
		log.Println("⚠️  Initial poll failed:", err)
	}

	log.Printf("⏰ Starting poll loop - will check every %s...\n", w.cfg.PollInterval)
	log.Println("═══════════════════════════════════════════════════════════")

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.startSweeps(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Watcher stopped")
			return ctx.Err()
		case <-ticker.C:
			log.Println("\n📬 Polling for complaint changes...")
			log.Println("⏰ Time:", time.Now().Format("2006-01-02 15:04:05"))

			if err := w.pollWithRetry(ctx); err != nil {
				log.Println("⚠️  Final error after all retry attempts:", err)
				// Keep the loop alive; the next tick gets a fresh chance
			}

			log.Println("═══════════════════════════════════════════════════════════")
		}
	}
}

// startSweeps launches the optional admin sweep loops (auto-escalation of
// overdue complaints and reminders for stale assignments). Both are
// disabled by default; the backend rejects them for non-admin sessions.
func (w *Watcher) startSweeps(ctx context.Context) {
	if w.cfg.AutoEscalateInterval > 0 {
		go w.sweepLoop(ctx, "auto-escalate", w.cfg.AutoEscalateInterval, w.client.AutoEscalate)
	}
	if w.cfg.ReminderInterval > 0 {
		go w.sweepLoop(ctx, "send-reminders", w.cfg.ReminderInterval, w.client.SendReminders)
	}
	if w.cfg.SummaryInterval > 0 && w.tg != nil {
		go w.summaryLoop(ctx)
	}
}

// summaryLoop periodically renders the open complaints as a table image
// and pushes it to Telegram.
func (w *Watcher) summaryLoop(ctx context.Context) {
	log.Printf("⏰ Starting summary image loop every %s\n", w.cfg.SummaryInterval)
	ticker := time.NewTicker(w.cfg.SummaryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.sendSummary(ctx); err != nil {
				log.Println("⚠️  Failed to send summary image:", err)
			}
		}
	}
}

func (w *Watcher) sendSummary(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.FetchTimeout)
	defer cancel()

	complaints, err := w.client.Complaints(ctx)
	if err != nil {
		return err
	}

	var rows []summary.Row
	for _, cm := range complaints {
		if !lifecycle.IsOpen(cm.Status) {
			continue
		}
		rows = append(rows, summary.RowFromComplaint(cm))
	}
	if len(rows) == 0 {
		log.Println("✓ No open complaints, skipping summary image")
		return nil
	}

	png, err := summary.RenderTable(rows)
	if err != nil {
		return err
	}

	caption := fmt.Sprintf("📊 Open Complaints Summary - %d pending", len(rows))
	if err := w.tg.SendSummaryImage(caption, png); err != nil {
		return err
	}
	w.monitor.NotificationSent()
	log.Printf("📊 Summary image sent (%d complaints)\n", len(rows))
	return nil
}

func (w *Watcher) sweepLoop(ctx context.Context, name string, interval time.Duration, sweep func(context.Context) (int, error)) {
	log.Printf("⏰ Starting %s sweep every %s\n", name, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sweep(ctx)
			if err != nil {
				log.Printf("⚠️  %s sweep failed: %v\n", name, err)
				continue
			}
			if n > 0 {
				log.Printf("✓ %s sweep touched %d complaints\n", name, n)
			}
		}
	}
}

// loginWithRetry logs in using configured credentials, retrying with a
// fixed delay between attempts.
func (w *Watcher) loginWithRetry(ctx context.Context) error {
	var loginErr error
	for attempt := 1; attempt <= w.cfg.MaxLoginRetries; attempt++ {
		log.Printf("   Login attempt %d/%d...", attempt, w.cfg.MaxLoginRetries)
		_, loginErr = w.client.Login(ctx, w.cfg.Email, w.cfg.Password)
		if loginErr == nil {
			return nil
		}

		if attempt < w.cfg.MaxLoginRetries {
			log.Printf("   ❌ Login failed: %v", loginErr)
			log.Printf("   ⏳ Retrying in %v seconds...", w.cfg.LoginRetryDelay.Seconds())
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.cfg.LoginRetryDelay):
			}
		}
	}
	return loginErr
}

// pollWithRetry implements the complete error handling flow:
//
//	Poll fails
//	  ├─ normal error → log & report
//	  └─ session expired
//	      ├─ re-login succeeds → retry poll
//	      └─ re-login fails → Telegram critical alert
func (w *Watcher) pollWithRetry(ctx context.Context) error {
	err := w.poll(ctx)
	if err == nil {
		w.monitor.UpdatePollStatus("success")
		return nil
	}

	if !rerrors.IsSessionExpired(err) {
		log.Println("⚠️  Error polling complaints:", err)
		w.monitor.UpdatePollStatus(err.Error())
		return err
	}

	log.Println("🔄 Session expired, attempting re-login...")
	if loginErr := w.loginWithRetry(ctx); loginErr != nil {
		log.Println("❌ All re-login attempts failed:", loginErr)
		log.Println("🚨 Sending critical failure alert...")

		if alertErr := w.tg.SendCriticalAlert(
			"Session Recovery Failure",
			fmt.Sprintf("Unable to re-login after session expiry. Last error: %v", loginErr),
			w.cfg.MaxLoginRetries,
		); alertErr != nil {
			log.Println("⚠️  Failed to send Telegram alert:", alertErr)
		}

		w.monitor.UpdatePollStatus(loginErr.Error())
		return fmt.Errorf("all retry attempts failed: %w", loginErr)
	}

	log.Println("✓ Re-login successful, retrying poll...")
	if retryErr := w.poll(ctx); retryErr != nil {
		log.Println("⚠️  Poll still failed after re-login:", retryErr)
		w.monitor.UpdatePollStatus(retryErr.Error())
		return retryErr
	}

	log.Println("✓ Poll successful after re-login")
	w.monitor.UpdatePollStatus("success")
	return nil
}

// poll runs one cycle: fetch the complaint list, diff it against stored
// state, notify about new and changed complaints, and clean up resolved
// ones.
func (w *Watcher) poll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.FetchTimeout)
	defer cancel()

	complaints, err := w.client.Complaints(ctx)
	if err != nil {
		return err
	}

	var fresh []complaint.Complaint
	byID := make(map[string]complaint.Complaint, len(complaints))

	for _, cm := range complaints {
		id := fmt.Sprintf("%d", cm.ID)
		byID[id] = cm

		switch {
		case w.store.IsNew(id) && lifecycle.IsOpen(cm.Status):
			fresh = append(fresh, cm)
		case w.store.StatusChanged(id, cm.Status):
			w.notifyStatusChange(id, cm)
		}
	}

	// Complaints that vanished from the listing were resolved or deleted
	// server side; stop tracking them
	for _, id := range w.store.AllTracked() {
		if _, ok := byID[id]; ok {
			continue
		}
		if _, err := w.store.RemoveIfExists(id); err != nil {
			log.Printf("⚠️  Failed to remove complaint %s from storage: %v\n", id, err)
		}
	}

	if len(fresh) == 0 {
		log.Println("✓ No new complaints")
	} else {
		log.Printf("🎉 Found %d new complaints\n", len(fresh))
		w.notifyNew(fresh)
	}

	w.monitor.SetTrackedComplaints(len(w.store.AllTracked()))
	return nil
}

// notifyNew pushes new complaints through the worker pool and persists
// the notification state in one batch.
func (w *Watcher) notifyNew(fresh []complaint.Complaint) {
	pool := NewWorkerPool(w.tg, w.cfg.WorkerPoolSize)

	go func() {
		for _, cm := range fresh {
			pool.Submit(cm)
		}
		pool.Close()
	}()

	var records []storage.Record
	for result := range pool.Results() {
		if result.Error != nil {
			// Not saved, so the next cycle retries the notification
			continue
		}
		records = append(records, storage.Record{
			ComplaintID: result.ComplaintID,
			LastStatus:  result.Status,
			MessageID:   result.MessageID,
			Title:       result.Title,
		})
		w.monitor.NotificationSent()
	}

	if len(records) == 0 {
		return
	}
	if err := w.store.SaveMultiple(records); err != nil {
		log.Printf("⚠️  Failed to save %d records: %v\n", len(records), err)
		return
	}
	log.Printf("💾 Saved %d complaints to storage\n", len(records))
}

// notifyStatusChange edits the original notification (or sends a new one)
// and records the new status. Resolved complaints are dropped from
// tracking once the notification went out.
func (w *Watcher) notifyStatusChange(id string, cm complaint.Complaint) {
	previous := w.store.LastStatus(id)
	log.Printf("🔄 Complaint #%s status changed: %s → %s\n", id, previous, cm.Status)

	if err := w.tg.SendStatusUpdate(cm, w.store.MessageID(id), previous); err != nil {
		log.Printf("⚠️  Failed to send status update for #%s: %v\n", id, err)
		return
	}
	w.monitor.NotificationSent()

	if lifecycle.FromBackend(cm.Status) == lifecycle.StateResolved {
		if _, err := w.store.RemoveIfExists(id); err != nil {
			log.Printf("⚠️  Failed to remove resolved complaint #%s: %v\n", id, err)
		}
		return
	}

	if err := w.store.UpdateStatus(id, cm.Status); err != nil {
		log.Printf("⚠️  Failed to record status for #%s: %v\n", id, err)
	}
}
