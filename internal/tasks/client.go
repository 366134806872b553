// Package tasks runs the service's periodic maintenance as backlite jobs
// stored in a SQLite file next to the main database.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client owns the queue database and the backlite workers. Jobs live in
// their own file so a destructive reset of the care store never loses or
// blocks queued maintenance.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	config  Config
	running atomic.Bool
}

// QueuePath returns where the queue database of mainDBPath lives:
// "care.db" keeps its jobs in "care-tasks.db".
func QueuePath(mainDBPath string) string {
	base := filepath.Base(mainDBPath)
	ext := filepath.Ext(base)
	return filepath.Join(filepath.Dir(mainDBPath), strings.TrimSuffix(base, ext)+"-tasks"+ext)
}

// openQueueDB opens the job file in WAL mode. Every worker may hold a
// connection while the scheduler enqueues, so the pool is sized past the
// worker count.
func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(workers + 2)
	db.SetMaxIdleConns(workers + 1)
	return db, nil
}

func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	db, err := openQueueDB(QueuePath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to open task queue database: %w", err)
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err == nil {
		err = queue.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare task queue: %w", err)
	}

	return &Client{queue: queue, db: db, config: cfg}, nil
}

// Register adds queues to the client. Call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start launches the workers and returns immediately. Repeated calls are
// ignored.
func (c *Client) Start(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	log.Printf("Task queue: started with %d worker(s)", c.config.Workers)
	c.queue.Start(ctx)
}

// Stop waits for running jobs until ctx expires. It reports whether every
// worker finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.running.Load() {
		return true
	}
	if !c.queue.Stop(ctx) {
		log.Println("Task queue: stop timed out, some maintenance jobs were interrupted")
		return false
	}
	c.running.Store(false)
	log.Println("Task queue: stopped")
	return true
}

func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Enqueue stores one job for the workers and returns its id.
func (c *Client) Enqueue(task backlite.Task) (string, error) {
	ids, err := c.queue.Add(task).Save()
	if err != nil {
		return "", fmt.Errorf("failed to enqueue %s: %w", task.Config().Name, err)
	}
	return ids[0], nil
}

// queueLogger routes backlite's log lines to the standard logger.
type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (queueLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
