package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache mirrors lexicon scores into Redis so profile surfaces can read them
// without touching the primary store. Layout:
//
//	lexicon:words                          hash  word id -> lemma
//	lexicon:user:{clientID}:{language}     zset  word id scored by mastery
//
// All writes are best effort: a Redis failure is logged and swallowed, the
// database remains the source of truth.
type Cache struct {
	rdb *redis.Client
	log *zap.SugaredLogger
}

// New connects to Redis and verifies the connection
func New(addr, password string, db int, log *zap.SugaredLogger) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{rdb: rdb, log: log}, nil
}

func userKey(clientID, language string) string {
	return fmt.Sprintf("lexicon:user:%s:%s", clientID, language)
}

// SetWord stores the lemma for a word id in the shared word hash
func (c *Cache) SetWord(ctx context.Context, wordID int, lemma string) {
	if wordID <= 0 || lemma == "" {
		c.log.Warnw("invalid word for profile cache", "word_id", wordID)
		return
	}
	if err := c.rdb.HSet(ctx, "lexicon:words", fmt.Sprint(wordID), lemma).Err(); err != nil {
		c.log.Warnw("failed to cache word", "word_id", wordID, "error", err)
	}
}

// SetUserWordScore records the learner's current mastery score for a word
func (c *Cache) SetUserWordScore(ctx context.Context, clientID, language string, wordID int, score float64) {
	if clientID == "" || language == "" {
		c.log.Warnw("missing client or language for profile cache", "word_id", wordID)
		return
	}
	err := c.rdb.ZAdd(ctx, userKey(clientID, language), redis.Z{
		Score:  score,
		Member: fmt.Sprint(wordID),
	}).Err()
	if err != nil {
		c.log.Warnw("failed to cache word score",
			"client_id", clientID, "word_id", wordID, "error", err)
	}
}

// WeakestWords returns up to n word ids with the lowest cached scores for a
// learner, weakest first
func (c *Cache) WeakestWords(ctx context.Context, clientID, language string, n int) ([]string, error) {
	ids, err := c.rdb.ZRange(ctx, userKey(clientID, language), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached scores: %w", err)
	}
	return ids, nil
}

// Close releases the Redis connection
func (c *Cache) Close() error {
	return c.rdb.Close()
}
