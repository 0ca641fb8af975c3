package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/oksasatya/devconnector/pkg/mailer/templates"
)

// ErrBadJob marks a message that can never be delivered; it should be dropped, not requeued.
var ErrBadJob = errors.New("bad email job")

// Process decodes one queued job, renders it if needed and sends it.
// A returned error wrapping ErrBadJob is permanent; any other error is retryable.
func Process(ctx context.Context, body []byte, sender Sender) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return errors.Join(ErrBadJob, err)
	}
	if job.To == "" {
		return errors.Join(ErrBadJob, errors.New("missing recipient"))
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := templates.Render(job.Template, job.Data)
		if err != nil {
			return errors.Join(ErrBadJob, err)
		}
		subject, text, html = s, t, h
	}
	if subject == "" || (text == "" && html == "") {
		return errors.Join(ErrBadJob, errors.New("empty message"))
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return sender.Send(c, job.To, subject, text, html)
}
