package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/mailer"
)

// enqueueEmail publishes job when a publisher is wired. Failures are logged, never returned.
func enqueueEmail(ctx context.Context, pub helpers.JSONPublisher, logger *logrus.Logger, job mailer.EmailJob) {
	if pub == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pub.PublishJSON(c, job); err != nil && logger != nil {
		logger.WithError(err).WithField("template", job.Template).Warn("failed to publish email job")
	}
}
