package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/findmyroom/findmyroom-api/pkg/helpers"
	"github.com/findmyroom/findmyroom-api/pkg/mailer"
)

// Notifier dispatches a one-time code to the user. Transport detail stays
// behind this interface; the orchestrator only sees success or failure.
type Notifier interface {
	SendOTP(ctx context.Context, email, otp string) error
}

// RabbitNotifier queues the OTP email for the worker to deliver.
type RabbitNotifier struct {
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewRabbitNotifier(pub *helpers.RabbitPublisher, logger *logrus.Logger) *RabbitNotifier {
	return &RabbitNotifier{Pub: pub, Logger: logger}
}

func (n *RabbitNotifier) SendOTP(ctx context.Context, email, otp string) error {
	job := mailer.EmailJob{To: email, Template: mailer.TemplateResetOTP, OTP: otp}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := n.Pub.PublishJSON(c, job); err != nil {
		if n.Logger != nil {
			n.Logger.WithError(err).WithField("email", email).Error("publish otp email job failed")
		}
		return ErrNotificationFailed
	}
	return nil
}

var _ Notifier = (*RabbitNotifier)(nil)
