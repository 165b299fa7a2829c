package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	err   error
	calls int
	last  EmailJob
}

func (s *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	s.calls++
	s.last = EmailJob{To: to, Subject: subject, Text: text, HTML: html}
	return s.err
}

func TestDeliverSuccess(t *testing.T) {
	sender := &fakeSender{}
	d := NewDeliverer(sender, nil)

	out := d.Deliver(context.Background(), EmailJob{To: "user@example.com", Subject: "hi", Text: "body"})

	assert.Equal(t, Delivered, out)
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "user@example.com", sender.last.To)
}

func TestDeliverInvalidRecipientIsDropped(t *testing.T) {
	sender := &fakeSender{}
	d := NewDeliverer(sender, nil)

	for _, to := range []string{"", "not-an-address", "missing@domain@twice"} {
		out := d.Deliver(context.Background(), EmailJob{To: to, Subject: "hi"})
		assert.Equal(t, DropJob, out, "recipient %q", to)
	}
	assert.Zero(t, sender.calls, "invalid recipients never reach the transport")
}

func TestDeliverTransportErrorIsRetried(t *testing.T) {
	sender := &fakeSender{err: errors.New("mailgun 503")}
	d := NewDeliverer(sender, nil)

	out := d.Deliver(context.Background(), EmailJob{To: "user@example.com", Subject: "hi"})

	assert.Equal(t, RetryJob, out)
	assert.Equal(t, 1, sender.calls)
}

func TestDecode(t *testing.T) {
	d := NewDeliverer(&fakeSender{}, nil)

	job, err := d.Decode([]byte(`{"to":"user@example.com","subject":"hi","text":"body"}`))
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", job.To)
	assert.Equal(t, "hi", job.Subject)

	_, err = d.Decode([]byte(`{nope`))
	assert.Error(t, err)
}
