package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/zeroprint/waitlist/pkg/clients/waitlist"
	"github.com/zeroprint/waitlist/pkg/metrics"
	"github.com/zeroprint/waitlist/pkg/models"
	"github.com/zeroprint/waitlist/pkg/utils"
)

// RegistrationService relays waitlist signups to the registration endpoint.
// It satisfies form.Registrar.
type RegistrationService interface {
	Register(ctx context.Context, data models.RegistrationRequest) (models.RegistrationResponse, error)
}

type registrationServiceImpl struct {
	client  waitlist.Client
	metrics *metrics.SubmissionMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	client waitlist.Client,
	submissionMetrics *metrics.SubmissionMetrics,
	logger *zap.Logger,
) RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &registrationServiceImpl{
		client:  client,
		metrics: submissionMetrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Register sends one signup. The endpoint's message is returned as sent;
// each surface escapes it for its own output.
func (s *registrationServiceImpl) Register(ctx context.Context, data models.RegistrationRequest) (models.RegistrationResponse, error) {
	// addresses stay out of the logs
	log := s.logger.With(
		zap.String("email_hash", utils.HashEmail(data.Email)),
		zap.String("interest", data.Interest),
	)
	log.Info("Processing waitlist submission")

	start := s.now()
	resp, err := s.client.Register(ctx, data)
	elapsed := s.now().Sub(start)

	outcome := classify(err)
	s.metrics.Observe(outcome, elapsed)

	if err != nil {
		log.Warn("Waitlist registration failed",
			zap.String("outcome", outcome),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return models.RegistrationResponse{}, err
	}

	log.Info("Waitlist registration accepted", zap.Duration("elapsed", elapsed))
	return resp, nil
}

func classify(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	var statusErr *waitlist.StatusError
	if errors.As(err, &statusErr) {
		return metrics.OutcomeStatusError
	}
	if errors.Is(err, waitlist.ErrMalformedResponse) {
		return metrics.OutcomeMalformedAnswer
	}
	return metrics.OutcomeTransportError
}
