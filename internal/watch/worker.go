// Package watch implements the complaint polling daemon with concurrent
// notification workers.
package watch

import (
	"fmt"
	"log"
	"sync"
	"time"

	"resolveit/internal/complaint"
	"resolveit/internal/telegram"
)

// ProcessResult is the outcome of notifying about one complaint.
type ProcessResult struct {
	ComplaintID string
	MessageID   string
	Status      string
	Title       string
	Error       error
}

// Worker is a single worker in the notification pool.
//
// Lifecycle:
//  1. Start: begin listening on the jobs channel
//  2. Process: send the complaint notification to Telegram
//  3. Result: send the result to the results channel
//  4. Repeat until the jobs channel closes
type Worker struct {
	id      int
	jobs    <-chan complaint.Complaint
	results chan<- ProcessResult
	tg      *telegram.Client
	wg      *sync.WaitGroup
}

// WorkerPool manages a pool of concurrent notification workers.
//
// Benefits:
//   - Controlled concurrency (stays well under Telegram rate limits)
//   - Resource reuse (workers stay alive between jobs)
//   - Backpressure handling (buffered job channel)
//   - Graceful shutdown (wait for all workers to finish)
type WorkerPool struct {
	workers     []*Worker
	jobs        chan complaint.Complaint
	results     chan ProcessResult
	wg          sync.WaitGroup
	workerCount int
}

// NewWorkerPool creates and starts a pool of notification workers.
func NewWorkerPool(tg *telegram.Client, workerCount int) *WorkerPool {
	log.Printf("  → Creating worker pool with %d workers...\n", workerCount)

	pool := &WorkerPool{
		workers:     make([]*Worker, workerCount),
		jobs:        make(chan complaint.Complaint, 100),
		results:     make(chan ProcessResult, 100),
		workerCount: workerCount,
	}

	for i := 0; i < workerCount; i++ {
		worker := &Worker{
			id:      i + 1,
			jobs:    pool.jobs,
			results: pool.results,
			tg:      tg,
			wg:      &pool.wg,
		}

		pool.workers[i] = worker
		pool.wg.Add(1)

		go worker.start()
	}

	log.Printf("  ✓ Worker pool started with %d workers\n", workerCount)
	return pool
}

// Submit adds a complaint to the notification queue. Blocks only when the
// job buffer is full.
func (p *WorkerPool) Submit(cm complaint.Complaint) {
	p.jobs <- cm
}

// Close closes the job channel, waits for all workers to finish, then
// closes the results channel. No work is lost.
func (p *WorkerPool) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}

// Results returns the read-only results channel.
func (p *WorkerPool) Results() <-chan ProcessResult {
	return p.results
}

// start begins the worker's processing loop. Errors are logged and sent
// in the result; no worker crashes from an individual job failure.
func (w *Worker) start() {
	defer w.wg.Done()

	log.Printf("  ✓ Worker #%d started\n", w.id)

	for job := range w.jobs {
		log.Printf("  [Worker #%d] Processing complaint #%d\n", w.id, job.ID)

		result := w.process(job)
		w.results <- result

		if result.Error != nil {
			log.Printf("  [Worker #%d] ✗ Failed to process #%d: %v\n", w.id, job.ID, result.Error)
		} else {
			log.Printf("  [Worker #%d] ✓ Processed #%d successfully\n", w.id, job.ID)
		}
	}

	log.Printf("  ✓ Worker #%d stopped\n", w.id)
}

// process sends the notification for one complaint.
//
// The small sleep keeps total send rate well under the Telegram API
// limit of 30 messages/second even with the largest sensible pool.
func (w *Worker) process(cm complaint.Complaint) ProcessResult {
	result := ProcessResult{
		ComplaintID: fmt.Sprintf("%d", cm.ID),
		Status:      cm.Status,
		Title:       cm.Title,
	}

	messageID, err := w.tg.SendComplaintMessage(cm)
	if err != nil {
		result.Error = fmt.Errorf("failed to send Telegram notification: %w", err)
		return result
	}
	result.MessageID = messageID

	time.Sleep(100 * time.Millisecond)

	return result
}
