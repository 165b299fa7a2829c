package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/devarta/taskboard/pkg/mailer"
)

// QueuePublisher is the enqueue side of the notification queue.
// helpers.RabbitPublisher satisfies it; tests substitute a fake.
type QueuePublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// FailureMode decides how an enqueue failure is reported to the caller.
// The record store write has already committed by the time we enqueue, so
// the choice is between failing the whole request and degraded success.
type FailureMode string

const (
	// FailRequest surfaces the enqueue error; the HTTP layer turns it
	// into a 502 while the mutation stays committed.
	FailRequest FailureMode = "fail"
	// WarnCaller returns success with a warning attached to the response.
	WarnCaller FailureMode = "warn"
)

// NotifyReport tells the caller what happened on the notification side of
// a mutation. Failed is only non-zero in WarnCaller mode.
type NotifyReport struct {
	Enqueued int
	Failed   int
}

// Degraded reports whether at least one notification was lost.
func (r NotifyReport) Degraded() bool { return r.Failed > 0 }

// Notifier turns task lifecycle events into email jobs on the queue.
// The two update-time triggers are independently toggleable; both default
// to on. Enqueue never blocks on delivery, only on the queue backend.
type Notifier struct {
	Pub                QueuePublisher
	Logger             *logrus.Logger
	Mode               FailureMode
	OnStatusChange     bool
	OnAssignmentChange bool
}

func NewNotifier(pub QueuePublisher, logger *logrus.Logger, mode FailureMode, onStatus, onAssignment bool) *Notifier {
	if mode != FailRequest {
		mode = WarnCaller
	}
	return &Notifier{Pub: pub, Logger: logger, Mode: mode, OnStatusChange: onStatus, OnAssignmentChange: onAssignment}
}

func (n *Notifier) enqueue(ctx context.Context, report *NotifyReport, job mailer.EmailJob) error {
	if n == nil || n.Pub == nil {
		return nil
	}
	if err := n.Pub.PublishJSON(ctx, job); err != nil {
		if n.Logger != nil {
			n.Logger.WithError(err).WithFields(logrus.Fields{
				"to":      job.To,
				"subject": job.Subject,
			}).Warn("failed to enqueue notification")
		}
		if n.Mode == FailRequest {
			return fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
		}
		report.Failed++
		return nil
	}
	report.Enqueued++
	return nil
}

// TaskAssigned enqueues the assignment email sent on task creation.
func (n *Notifier) TaskAssigned(ctx context.Context, report *NotifyReport, to, title string) error {
	return n.enqueue(ctx, report, mailer.EmailJob{
		To:      to,
		Subject: "You've been assigned a task",
		Text:    fmt.Sprintf("You've been assigned to task: %s", title),
	})
}

// StatusUpdated enqueues the status-change email. Callers evaluate the
// trigger predicate against the pre-patch snapshot.
func (n *Notifier) StatusUpdated(ctx context.Context, report *NotifyReport, to, title, status string) error {
	if !n.OnStatusChange {
		return nil
	}
	return n.enqueue(ctx, report, mailer.EmailJob{
		To:      to,
		Subject: "Task status updated",
		Text:    fmt.Sprintf("The status of task '%s' has changed to %s.", title, status),
	})
}

// TaskUpdated enqueues the generic task-updated email fired when the
// assignment or status changed and the task has an assignee.
func (n *Notifier) TaskUpdated(ctx context.Context, report *NotifyReport, to, title string) error {
	if !n.OnAssignmentChange {
		return nil
	}
	return n.enqueue(ctx, report, mailer.EmailJob{
		To:      to,
		Subject: "Task updated",
		Text:    fmt.Sprintf("Task '%s' was updated.", title),
	})
}
