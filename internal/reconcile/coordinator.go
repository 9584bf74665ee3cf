// Package reconcile keeps stored files consistent with the records that
// reference them.
//
// The database commit is the durability boundary. Files are cleaned up after
// the fact on a best-effort basis: a failed removal is logged, never returned,
// and never undoes a committed mutation.
package reconcile

import (
	"context"

	"github.com/sirupsen/logrus"
)

// FileRemover makes sure a stored file is absent. Removing a missing file
// must succeed.
type FileRemover interface {
	Remove(ctx context.Context, name string) error
}

// Coordinator is the only component that deletes stored files.
type Coordinator struct {
	files FileRemover
	log   *logrus.Logger
}

// New creates a Coordinator.
func New(files FileRemover, log *logrus.Logger) *Coordinator {
	return &Coordinator{files: files, log: log}
}

// Create runs create. If it fails, the freshly uploaded file is removed.
func (c *Coordinator) Create(ctx context.Context, fresh string, create func(ctx context.Context) error) error {
	return c.Replace(ctx, fresh, "", create)
}

// Replace runs update for a record whose image may change from previous to
// fresh. On failure fresh is removed and previous is left alone; on success
// previous is removed when it was superseded.
func (c *Coordinator) Replace(ctx context.Context, fresh, previous string, update func(ctx context.Context) error) error {
	if err := update(ctx); err != nil {
		c.Discard(ctx, fresh, "mutation failed")
		return err
	}
	if fresh != "" && previous != "" && previous != fresh {
		c.remove(ctx, previous, "superseded")
	}
	return nil
}

// Release runs remove, which deletes records and reports the files they
// referenced. Only once it has succeeded are those files deleted.
func (c *Coordinator) Release(ctx context.Context, remove func(ctx context.Context) ([]string, error)) error {
	names, err := remove(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		c.remove(ctx, name, "record deleted")
	}
	return nil
}

// Discard removes a file that never became referenced, e.g. when a request
// is rejected after its upload was accepted.
func (c *Coordinator) Discard(ctx context.Context, fresh, reason string) {
	c.remove(ctx, fresh, reason)
}

func (c *Coordinator) remove(ctx context.Context, name, reason string) {
	if name == "" {
		return
	}
	// Cleanup must outlive a client that hung up mid-request.
	if err := c.files.Remove(context.WithoutCancel(ctx), name); err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"file": name, "reason": reason}).Warn("stored file cleanup failed")
		return
	}
	c.log.WithFields(logrus.Fields{"file": name, "reason": reason}).Debug("stored file removed")
}
