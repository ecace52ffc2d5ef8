package service

import (
	"context"
	"errors"
	"time"

	"github.com/deppfellow/hms-backend/internal/dberr"
	"github.com/deppfellow/hms-backend/internal/metrics"
	"github.com/deppfellow/hms-backend/internal/model"
	"github.com/deppfellow/hms-backend/internal/repository"
	"github.com/deppfellow/hms-backend/internal/server"
	"github.com/rs/zerolog"
)

// SubmissionService persists validated form submissions.
type SubmissionService struct {
	server *server.Server
	store  repository.DocumentStore
}

func NewSubmissionService(s *server.Server, store repository.DocumentStore) *SubmissionService {
	return &SubmissionService{server: s, store: store}
}

func (s *SubmissionService) CreateAppointment(ctx context.Context, appt *model.Appointment) (*model.SubmissionResponse, error) {
	return s.submit(ctx, appt)
}

func (s *SubmissionService) CreateContactMessage(ctx context.Context, msg *model.ContactMessage) (*model.SubmissionResponse, error) {
	return s.submit(ctx, msg)
}

// Status reports the store connection.
func (s *SubmissionService) Status() repository.StoreStatus {
	return s.store.Status()
}

func (s *SubmissionService) submit(ctx context.Context, doc model.Document) (*model.SubmissionResponse, error) {
	collection := doc.Collection()
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = s.server.Logger
	}

	start := time.Now()
	id, err := s.store.Insert(ctx, collection, doc)
	elapsed := time.Since(start)

	if s.server.Metrics != nil {
		s.server.Metrics.ObserveInsert(collection, elapsed)
	}

	if err != nil {
		if s.server.Metrics != nil {
			s.server.Metrics.Submission(collection, metrics.OutcomeFailed)
		}
		event := logger.Error().Err(err).Str("collection", collection).Dur("duration", elapsed)
		var pe *dberr.Error
		if errors.As(err, &pe) {
			event = event.Str("store_error", string(pe.Code)).Str("summary", dberr.Describe(pe))
		}
		event.Msg("failed to store submission")
		return nil, err
	}

	if s.server.Metrics != nil {
		s.server.Metrics.Submission(collection, metrics.OutcomeStored)
	}

	logger.Info().
		Str("collection", collection).
		Str("id", id).
		Dur("duration", elapsed).
		Msg("submission stored")

	return &model.SubmissionResponse{OK: true, ID: id}, nil
}
