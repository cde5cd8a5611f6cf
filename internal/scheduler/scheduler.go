package scheduler

import (
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/lexengine/internal/database"
)

// Default window of hours during which reminders may be sent
const (
	DefaultReminderStartHour = 8
	DefaultReminderEndHour   = 22
)

// Notifier delivers review reminders to an external surface
type Notifier interface {
	SendReminder(clientID, language string, dueCount int) error
}

// Scheduler runs the periodic due-review sweep
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	log       *zap.SugaredLogger
}

// New creates a new scheduler instance
func New(notifier Notifier, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		log:       log,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.sweepDueReviews)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sweepDueReviews finds learners with due review items and notifies them
func (s *Scheduler) sweepDueReviews() {
	currentHour := time.Now().Hour()
	startHour := hourFromEnv("REMINDER_START_HOUR", DefaultReminderStartHour)
	endHour := hourFromEnv("REMINDER_END_HOUR", DefaultReminderEndHour)

	if currentHour < startHour || currentHour > endHour {
		s.log.Debugw("outside reminder hours, skipping sweep",
			"hour", currentHour, "start", startHour, "end", endHour)
		return
	}

	reviewRepo := database.NewReviewRepository()
	counts, err := reviewRepo.GetLearnersWithDue(time.Now())
	if err != nil {
		s.log.Errorw("failed to sweep due reviews", "error", err)
		return
	}

	for _, c := range counts {
		if err := s.notifier.SendReminder(c.ClientID, c.Language, c.Count); err != nil {
			s.log.Errorw("failed to send reminder",
				"client_id", c.ClientID, "error", err)
		}
	}
}

// RunManualCheck forces a sweep for a specific learner
func (s *Scheduler) RunManualCheck(clientID, language string) error {
	learnerRepo := database.NewLearnerRepository()
	reviewRepo := database.NewReviewRepository()

	learner, err := learnerRepo.GetByClientID(clientID, language)
	if err != nil {
		return err
	}
	if learner == nil {
		return nil
	}

	due, err := reviewRepo.GetDueForLearner(learner.ID, "", time.Now(), 1000)
	if err != nil {
		return err
	}
	if len(due) > 0 {
		return s.notifier.SendReminder(clientID, language, len(due))
	}
	return nil
}

func hourFromEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}

// LogNotifier writes reminders to the log. Stands in for a real delivery
// channel (push, email) which lives outside this engine.
type LogNotifier struct {
	Log *zap.SugaredLogger
}

// SendReminder implements Notifier
func (n *LogNotifier) SendReminder(clientID, language string, dueCount int) error {
	n.Log.Infow("review reminder",
		"client_id", clientID, "language", language, "due_count", dueCount)
	return nil
}
