package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/lexengine/internal/database"
	"github.com/example/lexengine/internal/mastery"
	"github.com/example/lexengine/internal/profile"
	"github.com/example/lexengine/pkg/models"
)

// Sentinel errors. Use errors.Is to check.
var (
	// ErrMalformedEvent marks events that cannot identify a learner or word.
	// Such events are dropped, never retried.
	ErrMalformedEvent = errors.New("ingest: malformed event")
	// ErrConflict is returned after the bounded optimistic retries are
	// exhausted. The dropped evidence is corrected by the next event for the
	// same word.
	ErrConflict = errors.New("ingest: statistics write conflict")
)

// maxUpdateAttempts bounds the optimistic retry loop per event
const maxUpdateAttempts = 5

// Rolling window sizes in days
const (
	shortWindowDays = 7.0
	longWindowDays  = 30.0
)

// Aggregator is the only writer of word statistics. It folds interaction
// events into per-(learner, word) rolling evidence sums and keeps the derived
// mastery score current. Events for different pairs proceed independently;
// events for the same pair serialize through the versioned statistics write.
type Aggregator struct {
	words        *database.WordRepository
	learners     *database.LearnerRepository
	interactions *database.InteractionRepository
	stats        *database.StatisticsRepository
	profile      *profile.Cache
	log          *zap.SugaredLogger
	now          func() time.Time
}

// NewAggregator creates an aggregator. The profile cache may be nil when
// Redis is not configured.
func NewAggregator(log *zap.SugaredLogger, cache *profile.Cache) *Aggregator {
	return &Aggregator{
		words:        database.NewWordRepository(),
		learners:     database.NewLearnerRepository(),
		interactions: database.NewInteractionRepository(),
		stats:        database.NewStatisticsRepository(),
		profile:      cache,
		log:          log,
		now:          time.Now,
	}
}

// HandleEvent processes one interaction event end to end: resolve learner and
// word, log the interaction, then fold its weight into the rolling sums.
// Failures never block the stream; malformed events and exhausted conflicts
// are dropped with a log line.
func (a *Aggregator) HandleEvent(ctx context.Context, event Event) error {
	if event.ClientID == "" {
		a.log.Warnw("dropping event without client id", "kind", event.Kind)
		return ErrMalformedEvent
	}

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = a.now()
	}

	learner, err := a.learners.GetOrCreate(event.ClientID, event.Language)
	if err != nil {
		return fmt.Errorf("failed to resolve learner: %w", err)
	}

	word, formID, err := a.resolveWord(event)
	if err != nil {
		a.log.Warnw("dropping event with unresolvable word",
			"client_id", event.ClientID, "kind", event.Kind, "error", err)
		return err
	}

	weight := mastery.Weight(event.Kind, word.POS)

	// Append-only record of the raw event with its resolved weight
	interaction := &models.Interaction{
		LearnerID:   learner.ID,
		WordID:      word.ID,
		FormID:      formID,
		Kind:        event.Kind,
		Correctness: event.Correctness,
		Weight:      weight,
		Timestamp:   timestamp,
	}
	if err := a.interactions.Create(interaction); err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}

	stats, err := a.applyEvidence(learner.ID, word, weight, timestamp)
	if err != nil {
		return err
	}

	a.mirrorProfile(ctx, event, learner, word, stats)
	return nil
}

// resolveWord finds or creates the vocabulary item an event refers to and
// attaches any newly observed surface form
func (a *Aggregator) resolveWord(event Event) (*models.Word, *int, error) {
	if event.WordID > 0 {
		word, err := a.words.GetByID(event.WordID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: unknown word id %d", ErrMalformedEvent, event.WordID)
		}
		return word, nil, nil
	}

	if event.Token == nil {
		return nil, nil, fmt.Errorf("%w: no word id or token", ErrMalformedEvent)
	}

	lemma := strings.TrimSpace(strings.ToLower(event.Token.Lemma))
	if lemma == "" {
		lemma = strings.TrimSpace(strings.ToLower(event.Token.Surface))
	}
	if lemma == "" {
		return nil, nil, fmt.Errorf("%w: empty lemma", ErrMalformedEvent)
	}

	pos := strings.ToUpper(strings.TrimSpace(event.Token.POS))
	if skippablePOS[pos] {
		return nil, nil, fmt.Errorf("%w: skippable pos %s", ErrMalformedEvent, pos)
	}

	word, err := a.words.GetOrCreate(lemma, pos, event.Language)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve word: %w", err)
	}

	// Surface variants attach to the same lemma
	surface := strings.TrimSpace(strings.ToLower(event.Token.Surface))
	if surface != "" && surface != lemma {
		form, err := a.words.AttachForm(word.ID, surface)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to attach surface form: %w", err)
		}
		return word, &form.ID, nil
	}

	return word, nil, nil
}

// applyEvidence runs the transactional read-modify-write against the
// statistics row, with bounded optimistic retries on version conflicts
func (a *Aggregator) applyEvidence(learnerID int64, word *models.Word, weight float64, timestamp time.Time) (*models.WordStatistics, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		stats, err := a.stats.GetByLearnerAndWord(learnerID, word.ID)
		if err != nil {
			return nil, err
		}

		if stats == nil {
			stats = &models.WordStatistics{
				LearnerID:   learnerID,
				WordID:      word.ID,
				LastUpdated: timestamp,
			}
			if err := a.stats.Create(stats); err != nil {
				// Lost the first-sight race: another writer created the row
				a.log.Debugw("statistics create race, retrying",
					"learner_id", learnerID, "word_id", word.ID)
				continue
			}
		}

		// Decay the rolling sums toward the event timestamp, then fold in
		// the new weight. Events may arrive out of order across partitions,
		// so negative elapsed time is treated as zero and last_updated never
		// moves backwards.
		elapsedDays := timestamp.Sub(stats.LastUpdated).Hours() / 24
		stats.Weighted7Days = mastery.RollingSum(stats.Weighted7Days, weight, elapsedDays, shortWindowDays)
		stats.Weighted30Days = mastery.RollingSum(stats.Weighted30Days, weight, elapsedDays, longWindowDays)

		// Sums stay non-negative even when negative evidence outweighs them
		if stats.Weighted7Days < 0 {
			stats.Weighted7Days = 0
		}
		if stats.Weighted30Days < 0 {
			stats.Weighted30Days = 0
		}

		stats.TotalInteractions7Days++
		stats.TotalInteractions30Days++
		stats.Score = mastery.Mastery(stats.Weighted30Days, mastery.CurveFor(word.POS))
		if timestamp.After(stats.LastUpdated) {
			stats.LastUpdated = timestamp
		}

		applied, err := a.stats.UpdateVersioned(stats)
		if err != nil {
			return nil, err
		}
		if applied {
			return stats, nil
		}

		a.log.Debugw("statistics version conflict, retrying",
			"learner_id", learnerID, "word_id", word.ID, "attempt", attempt+1)
	}

	a.log.Warnw("dropping evidence after retry budget",
		"learner_id", learnerID, "word_id", word.ID, "attempts", maxUpdateAttempts)
	return nil, ErrConflict
}

// mirrorProfile pushes the updated score into the Redis profile, best effort
func (a *Aggregator) mirrorProfile(ctx context.Context, event Event, learner *models.Learner, word *models.Word, stats *models.WordStatistics) {
	if a.profile == nil {
		return
	}
	a.profile.SetWord(ctx, word.ID, word.Lemma)
	a.profile.SetUserWordScore(ctx, learner.ClientID, learner.Language, word.ID, stats.Score)
}
