package review

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/lexengine/internal/database"
	"github.com/example/lexengine/pkg/models"
)

// Default scheduling values for an item on first exposure
const (
	defaultEaseFactor = 2.5
	// DefaultExerciseType is used when a caller does not name one
	DefaultExerciseType = "flashcard"
)

// AttemptInput carries one graded attempt from a practice or flashcard surface
type AttemptInput struct {
	ClientID       string
	Language       string
	WordID         int
	ExerciseType   string
	Grade          Grade
	PromptText     string
	ExpectedAnswer string
	UserAnswer     string
	LatencyMs      *int // Analytics only, never affects scheduling
	HintsUsed      int
}

// Service is the request-facing entry point for recall scheduling. One graded
// attempt maps to one transaction: read the item, advance its schedule,
// persist, append the attempt record.
type Service struct {
	reviews  *database.ReviewRepository
	learners *database.LearnerRepository
	sched    *Scheduler
	log      *zap.SugaredLogger
	now      func() time.Time
}

// NewService creates a review service with default SM-2 parameters
func NewService(log *zap.SugaredLogger) *Service {
	return &Service{
		reviews:  database.NewReviewRepository(),
		learners: database.NewLearnerRepository(),
		sched:    NewScheduler(),
		log:      log,
		now:      time.Now,
	}
}

// RecordAttempt applies one graded attempt and returns the updated item along
// with the immutable attempt record. The item is created on first exposure.
// Out-of-range grades are rejected before anything is touched.
func (s *Service) RecordAttempt(input AttemptInput) (*models.ReviewItem, *models.ReviewAttempt, error) {
	if !input.Grade.IsValid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidGrade, input.Grade)
	}
	if input.WordID <= 0 {
		return nil, nil, fmt.Errorf("word id is required")
	}

	exerciseType := input.ExerciseType
	if exerciseType == "" {
		exerciseType = DefaultExerciseType
	}

	learner, err := s.learners.GetOrCreate(input.ClientID, input.Language)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()

	tx, err := database.DB.Beginx()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := s.reviews.GetForUpdateTx(tx, learner.ID, input.WordID, exerciseType)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		item = &models.ReviewItem{
			LearnerID:    learner.ID,
			WordID:       input.WordID,
			ExerciseType: exerciseType,
			EaseFactor:   defaultEaseFactor,
			DueAt:        now,
		}
		if err := s.reviews.CreateTx(tx, item); err != nil {
			return nil, nil, err
		}
	}

	previousEase := item.EaseFactor
	previousInterval := item.IntervalDays

	if err := s.sched.Apply(item, input.Grade, now); err != nil {
		return nil, nil, err
	}

	if err := s.reviews.UpdateTx(tx, item); err != nil {
		return nil, nil, err
	}

	attempt := &models.ReviewAttempt{
		RequestID:            uuid.NewString(),
		ItemID:               item.ID,
		LearnerID:            learner.ID,
		WordID:               input.WordID,
		ExerciseType:         exerciseType,
		Grade:                string(input.Grade),
		PromptText:           input.PromptText,
		ExpectedAnswer:       input.ExpectedAnswer,
		UserAnswer:           input.UserAnswer,
		IsCorrect:            input.Grade.IsCorrect(),
		LatencyMs:            input.LatencyMs,
		HintsUsed:            input.HintsUsed,
		PreviousEaseFactor:   previousEase,
		NextEaseFactor:       item.EaseFactor,
		PreviousIntervalDays: previousInterval,
		NextIntervalDays:     item.IntervalDays,
		NextDueAt:            item.DueAt,
		ReviewedAt:           now,
	}
	if err := s.reviews.InsertAttemptTx(tx, attempt); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit attempt: %w", err)
	}

	s.log.Debugw("recorded attempt",
		"client_id", input.ClientID,
		"word_id", input.WordID,
		"grade", input.Grade,
		"interval_days", item.IntervalDays,
		"due_at", item.DueAt)

	return item, attempt, nil
}

// DueItems returns the learner's review items due at or before now, ordered
// by due date ascending. exerciseType narrows to one exercise kind when
// non-empty.
func (s *Service) DueItems(clientID, language, exerciseType string, limit int) ([]models.ReviewItem, error) {
	if limit <= 0 {
		limit = 20
	}

	learner, err := s.learners.GetByClientID(clientID, language)
	if err != nil {
		return nil, err
	}
	if learner == nil {
		return nil, nil
	}

	return s.reviews.GetDueForLearner(learner.ID, exerciseType, s.now(), limit)
}

// AttemptHistory returns the attempt log for one review item, newest first
func (s *Service) AttemptHistory(itemID int64) ([]models.ReviewAttempt, error) {
	return s.reviews.GetAttemptsForItem(itemID)
}
