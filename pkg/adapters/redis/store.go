package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/newsmeme/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.VoteStore using Redis.
//
// Keys, relative to the prefix:
//
//	post:<id>            hash {author, score}
//	post:<id>:voters     set of user names
//	post:<id>:comments   set of comment ids
//	comment:<id>         hash {author, score, post_id}
//	comment:<id>:voters  set of user names
//	karma:<user>         integer
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "newsmeme:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) postKey(id int64) string {
	return s.prefix + "post:" + strconv.FormatInt(id, 10)
}

func (s *Store) commentKey(id int64) string {
	return s.prefix + "comment:" + strconv.FormatInt(id, 10)
}

func (s *Store) karmaPrefix() string {
	return s.prefix + "karma:"
}

// Status codes returned by the scripts.
const (
	scriptOK        = 1
	scriptNotFound  = 0
	scriptForbidden = -1
)

// voteScript applies one vote atomically.
// KEYS: item hash, voters set. ARGV: user, delta, karma key prefix.
var voteScript = backend.NewScript(`
local author = redis.call("HGET", KEYS[1], "author")
if not author then
	return {0, 0}
end
if author == ARGV[1] then
	return {-1, 0}
end
if redis.call("SADD", KEYS[2], ARGV[1]) == 0 then
	return {-1, 0}
end
local score = redis.call("HINCRBY", KEYS[1], "score", ARGV[2])
local karmaKey = ARGV[3] .. author
local karma = redis.call("INCRBY", karmaKey, ARGV[2])
if karma < 0 then
	redis.call("SET", karmaKey, 0)
end
return {1, score}
`)

// deleteCommentScript removes a comment if ARGV[1] wrote it or ARGV[3] is "1".
// KEYS: comment hash. ARGV: user, key prefix, moderator flag.
var deleteCommentScript = backend.NewScript(`
local fields = redis.call("HMGET", KEYS[1], "author", "post_id")
if not fields[1] then
	return 0
end
if fields[1] ~= ARGV[1] and ARGV[3] ~= "1" then
	return -1
end
redis.call("DEL", KEYS[1], KEYS[1] .. ":voters")
redis.call("SREM", ARGV[2] .. "post:" .. fields[2] .. ":comments", KEYS[1])
return 1
`)

// deletePostScript removes a post and its comments if ARGV[1] wrote it or
// ARGV[2] is "1".
// KEYS: post hash. ARGV: user, moderator flag.
var deletePostScript = backend.NewScript(`
local author = redis.call("HGET", KEYS[1], "author")
if not author then
	return 0
end
if author ~= ARGV[1] and ARGV[2] ~= "1" then
	return -1
end
for _, comment in ipairs(redis.call("SMEMBERS", KEYS[1] .. ":comments")) do
	redis.call("DEL", comment, comment .. ":voters")
end
redis.call("DEL", KEYS[1], KEYS[1] .. ":voters", KEYS[1] .. ":comments")
return 1
`)

// AddPost stores a post, replacing any post with the same id.
func (s *Store) AddPost(ctx context.Context, post domain.Post) error {
	key := s.postKey(post.ID)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key, key+":voters")
	pipe.HSet(ctx, key, "author", post.Author, "score", post.Score)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save post to redis: %w", err)
	}
	return nil
}

// AddComment stores a comment. The post must exist.
func (s *Store) AddComment(ctx context.Context, comment domain.Comment) error {
	postKey := s.postKey(comment.PostID)
	exists, err := s.client.Exists(ctx, postKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check post in redis: %w", err)
	}
	if exists == 0 {
		return domain.ErrNotFound
	}

	key := s.commentKey(comment.ID)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key, key+":voters")
	pipe.HSet(ctx, key, "author", comment.Author, "score", comment.Score, "post_id", comment.PostID)
	pipe.SAdd(ctx, postKey+":comments", key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save comment to redis: %w", err)
	}
	return nil
}

func (s *Store) VotePost(ctx context.Context, postID int64, user string, delta int64) (int64, error) {
	return s.vote(ctx, s.postKey(postID), user, delta)
}

func (s *Store) VoteComment(ctx context.Context, commentID int64, user string, delta int64) (int64, error) {
	return s.vote(ctx, s.commentKey(commentID), user, delta)
}

func (s *Store) vote(ctx context.Context, key, user string, delta int64) (int64, error) {
	res, err := voteScript.Run(ctx, s.client, []string{key, key + ":voters"}, user, delta, s.karmaPrefix()).Int64Slice()
	if err != nil {
		return 0, fmt.Errorf("failed to vote in redis: %w", err)
	}
	if len(res) != 2 {
		return 0, fmt.Errorf("unexpected vote script reply %v", res)
	}
	if err := statusErr(res[0]); err != nil {
		return 0, err
	}
	return res[1], nil
}

func (s *Store) DeletePost(ctx context.Context, postID int64, by domain.Actor) error {
	code, err := deletePostScript.Run(ctx, s.client, []string{s.postKey(postID)}, by.Name, moderatorFlag(by)).Int64()
	if err != nil {
		return fmt.Errorf("failed to delete post in redis: %w", err)
	}
	return statusErr(code)
}

func (s *Store) DeleteComment(ctx context.Context, commentID int64, by domain.Actor) error {
	code, err := deleteCommentScript.Run(ctx, s.client, []string{s.commentKey(commentID)}, by.Name, s.prefix, moderatorFlag(by)).Int64()
	if err != nil {
		return fmt.Errorf("failed to delete comment in redis: %w", err)
	}
	return statusErr(code)
}

func (s *Store) Karma(ctx context.Context, user string) (int64, error) {
	karma, err := s.client.Get(ctx, s.karmaPrefix()+user).Int64()
	if errors.Is(err, backend.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get karma from redis: %w", err)
	}
	return karma, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func moderatorFlag(by domain.Actor) string {
	if by.Moderator {
		return "1"
	}
	return "0"
}

func statusErr(code int64) error {
	switch code {
	case scriptOK:
		return nil
	case scriptNotFound:
		return domain.ErrNotFound
	case scriptForbidden:
		return domain.ErrForbidden
	default:
		return fmt.Errorf("unexpected script status %d", code)
	}
}
