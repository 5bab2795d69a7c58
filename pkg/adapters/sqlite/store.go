package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aretw0/newsmeme/pkg/domain"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS post (
    id INTEGER PRIMARY KEY,
    author TEXT NOT NULL,
    score INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS comment (
    id INTEGER PRIMARY KEY,
    post_id INTEGER NOT NULL,
    author TEXT NOT NULL,
    score INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_comment_post_id ON comment(post_id);

CREATE TABLE IF NOT EXISTS vote (
    kind TEXT NOT NULL CHECK (kind IN ('post', 'comment')),
    item_id INTEGER NOT NULL,
    voter TEXT NOT NULL,
    PRIMARY KEY (kind, item_id, voter)
);

CREATE TABLE IF NOT EXISTS karma (
    name TEXT PRIMARY KEY,
    karma INTEGER NOT NULL DEFAULT 0
);
`

// Store implements ports.VoteStore on SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	store, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an open database and applies the schema.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// AddPost stores a post, replacing any post with the same id.
func (s *Store) AddPost(ctx context.Context, post domain.Post) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE kind = 'post' AND item_id = ?`, post.ID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO post (id, author, score) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET author = excluded.author, score = excluded.score
		`, post.ID, post.Author, post.Score)
		return err
	})
}

// AddComment stores a comment. The post must exist.
func (s *Store) AddComment(ctx context.Context, comment domain.Comment) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := lookup(ctx, tx, `SELECT author FROM post WHERE id = ?`, comment.PostID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE kind = 'comment' AND item_id = ?`, comment.ID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO comment (id, post_id, author, score) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET post_id = excluded.post_id, author = excluded.author, score = excluded.score
		`, comment.ID, comment.PostID, comment.Author, comment.Score)
		return err
	})
}

func (s *Store) VotePost(ctx context.Context, postID int64, user string, delta int64) (int64, error) {
	return s.vote(ctx, "post", postID, user, delta)
}

func (s *Store) VoteComment(ctx context.Context, commentID int64, user string, delta int64) (int64, error) {
	return s.vote(ctx, "comment", commentID, user, delta)
}

// kind is one of the fixed table names; it is never user input.
func (s *Store) vote(ctx context.Context, kind string, id int64, user string, delta int64) (int64, error) {
	var score int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		author, err := lookup(ctx, tx, `SELECT author FROM `+kind+` WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if author == user {
			return domain.ErrForbidden
		}

		res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO vote (kind, item_id, voter) VALUES (?, ?, ?)`, kind, id, user)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrForbidden
		}

		if err := tx.QueryRowContext(ctx,
			`UPDATE `+kind+` SET score = score + ? WHERE id = ? RETURNING score`, delta, id,
		).Scan(&score); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO karma (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, author); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE karma SET karma = max(karma + ?, 0) WHERE name = ?`, delta, author)
		return err
	})
	return score, err
}

func (s *Store) DeletePost(ctx context.Context, postID int64, by domain.Actor) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		author, err := lookup(ctx, tx, `SELECT author FROM post WHERE id = ?`, postID)
		if err != nil {
			return err
		}
		if !by.CanDelete(author) {
			return domain.ErrForbidden
		}

		stmts := []string{
			`DELETE FROM vote WHERE kind = 'comment' AND item_id IN (SELECT id FROM comment WHERE post_id = ?)`,
			`DELETE FROM comment WHERE post_id = ?`,
			`DELETE FROM vote WHERE kind = 'post' AND item_id = ?`,
			`DELETE FROM post WHERE id = ?`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt, postID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) DeleteComment(ctx context.Context, commentID int64, by domain.Actor) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		author, err := lookup(ctx, tx, `SELECT author FROM comment WHERE id = ?`, commentID)
		if err != nil {
			return err
		}
		if !by.CanDelete(author) {
			return domain.ErrForbidden
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE kind = 'comment' AND item_id = ?`, commentID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM comment WHERE id = ?`, commentID)
		return err
	})
}

func (s *Store) Karma(ctx context.Context, user string) (int64, error) {
	var karma int64
	err := s.db.QueryRowContext(ctx, `SELECT karma FROM karma WHERE name = ?`, user).Scan(&karma)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query karma: %w", err)
	}
	return karma, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) {
			return err
		}
		return fmt.Errorf("sqlite: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func lookup(ctx context.Context, tx *sql.Tx, query string, id int64) (string, error) {
	var author string
	err := tx.QueryRowContext(ctx, query, id).Scan(&author)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	return author, err
}
