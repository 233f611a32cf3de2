package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Migration-Dashboard/internal/apperrors"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
	"github.com/ndewijer/Migration-Dashboard/internal/notify"
	"github.com/ndewijer/Migration-Dashboard/internal/repository"
)

// DefaultHistoryLimit is the number of activities returned when no limit is given.
const DefaultHistoryLimit = 50

// ActivityService records dashboard action outcomes locally and forwards them
// to the configured publisher.
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	publisher    notify.Publisher
	log          logrus.FieldLogger
}

// NewActivityService creates a new ActivityService. A nil publisher disables publishing.
func NewActivityService(
	activityRepo *repository.ActivityRepository,
	publisher notify.Publisher,
	log logrus.FieldLogger,
) *ActivityService {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ActivityService{
		activityRepo: activityRepo,
		publisher:    publisher,
		log:          log.WithField("component", "activity"),
	}
}

// Record stores and publishes an action outcome. Failures are logged and
// never returned.
func (s *ActivityService) Record(ctx context.Context, action model.Action, status model.ActivityStatus, detail string) {
	activity := model.Activity{
		ID:        uuid.New().String(),
		Action:    action,
		Status:    status,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}

	fields := logrus.Fields{"action": action, "status": status}
	if err := s.activityRepo.InsertActivity(ctx, activity); err != nil {
		s.log.WithFields(fields).WithError(err).Error("Failed to store activity")
	}
	if err := s.publisher.Publish(ctx, activity); err != nil {
		s.log.WithFields(fields).WithError(err).Warn("Failed to publish activity")
	}
	s.log.WithFields(fields).Info(detail)
}

// RecentActivity returns the most recent activities, newest first.
func (s *ActivityService) RecentActivity(ctx context.Context, limit int) (model.ActivityResponse, error) {
	if limit <= 0 {
		return model.ActivityResponse{}, apperrors.ErrInvalidLimit
	}

	activities, err := s.activityRepo.GetRecentActivity(ctx, limit)
	if err != nil {
		return model.ActivityResponse{}, err
	}

	return model.ActivityResponse{
		Activities: activities,
		Count:      len(activities),
	}, nil
}
