package mailer

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Outcome tells the consumer loop what to do with the queue message after a
// delivery attempt.
type Outcome int

const (
	// Delivered: ack the message.
	Delivered Outcome = iota
	// DropJob: permanent failure (malformed payload or recipient); ack is
	// wrong and requeue would loop forever, so nack without requeue.
	DropJob
	// RetryJob: transient transport failure; nack with requeue and let the
	// queue's redelivery semantics handle the retry.
	RetryJob
)

// Sender is the transport behind the worker. Mailgun satisfies it.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Deliverer validates and delivers email jobs. Failures never propagate
// past this layer; the enqueuing request finished long ago.
type Deliverer struct {
	Sender   Sender
	Logger   *logrus.Logger
	validate *validator.Validate
}

func NewDeliverer(sender Sender, logger *logrus.Logger) *Deliverer {
	return &Deliverer{Sender: sender, Logger: logger, validate: validator.New()}
}

// Decode parses a raw queue message into an EmailJob.
func (d *Deliverer) Decode(body []byte) (EmailJob, error) {
	var job EmailJob
	err := json.Unmarshal(body, &job)
	return job, err
}

// Deliver attempts one delivery and classifies the result. A syntactically
// invalid recipient is a permanent failure; a transport error is left to
// queue-level redelivery.
func (d *Deliverer) Deliver(ctx context.Context, job EmailJob) Outcome {
	if err := d.validate.Var(job.To, "required,email"); err != nil {
		d.log(job, "invalid recipient address, dropping job", nil)
		return DropJob
	}
	if err := d.Sender.Send(ctx, job.To, job.Subject, job.Text, job.HTML); err != nil {
		d.log(job, "send failed, requeueing", err)
		return RetryJob
	}
	if d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{"to": job.To, "subject": job.Subject}).Info("email delivered")
	}
	return Delivered
}

func (d *Deliverer) log(job EmailJob, msg string, err error) {
	if d.Logger == nil {
		return
	}
	entry := d.Logger.WithFields(logrus.Fields{"to": job.To, "subject": job.Subject})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn(msg)
}
