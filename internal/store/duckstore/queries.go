// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package duckstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/store"
)

// GetRatedItems loads the user's ratings in insertion order and joins them
// with their movies in Go, so dangling references are counted.
func (s *Store) GetRatedItems(ctx context.Context, userID string) (history *models.RatingHistory, err error) {
	defer observe("get_rated_items", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx,
		`SELECT movie_id, rating FROM ratings WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		return nil, store.Unavailable("query ratings", err)
	}
	defer closeWithLog(rows, "rows")

	var ratings []models.Rating
	for rows.Next() {
		var ref sql.NullString
		var value sql.NullFloat64
		if err := rows.Scan(&ref, &value); err != nil {
			return nil, store.Unavailable("scan rating", err)
		}
		ratings = append(ratings, models.Rating{UserID: userID, MovieRef: movieRef(ref), Rating: nullNumber(value)})
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("iterate ratings", err)
	}

	refs := store.MovieRefs(ratings)
	movies := make(map[primitive.ObjectID]models.Movie, len(refs))
	if len(refs) > 0 {
		args := make([]interface{}, len(refs))
		for i, id := range refs {
			args[i] = id.Hex()
		}
		query := `SELECT id, doc FROM movies WHERE id IN (` + placeholders(len(refs)) + `)`
		found, err := s.queryMovies(ctx, "query rated movies", query, args...)
		if err != nil {
			return nil, err
		}
		for i := range found {
			movies[found[i].ID] = found[i]
		}
	}

	return store.BuildHistory(ratings, movies), nil
}

// GetTopQualityItems returns up to n movies by rating, unrated last.
func (s *Store) GetTopQualityItems(ctx context.Context, n int) (movies []models.Movie, err error) {
	defer observe("get_top_quality_items", time.Now(), &err)

	if n <= 0 {
		return []models.Movie{}, nil
	}
	return s.queryMovies(ctx, "query top movies", fmt.Sprintf(
		`SELECT id, doc FROM movies ORDER BY quality DESC NULLS LAST, id ASC LIMIT %d`, n))
}

// GetItem returns the movie with id.
func (s *Store) GetItem(ctx context.Context, id primitive.ObjectID) (movie *models.Movie, found bool, err error) {
	defer observe("get_item", time.Now(), &err)

	movie, err = s.queryMovie(ctx, "get item", `SELECT id, doc FROM movies WHERE id = ?`, id.Hex())
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return movie, true, nil
}

// ListRatedMovies joins ratings with movies, best user rating first.
func (s *Store) ListRatedMovies(ctx context.Context, userID string) (records []models.RatedMovieRecord, err error) {
	defer observe("list_rated_movies", time.Now(), &err)

	query := `SELECT r.id, r.user_id, r.rating, m.id, m.doc
		FROM ratings r JOIN movies m ON m.id = r.movie_id`
	var args []interface{}
	if userID != "" {
		query += ` WHERE r.user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY r.rating DESC NULLS LAST, r.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.Unavailable("query rated movies", err)
	}
	defer closeWithLog(rows, "rows")

	records = []models.RatedMovieRecord{}
	for rows.Next() {
		var ratingID, user, movieID, doc string
		var value sql.NullFloat64
		if err := rows.Scan(&ratingID, &user, &value, &movieID, &doc); err != nil {
			return nil, store.Unavailable("scan rated movie", err)
		}
		m, err := decodeMovie(movieID, doc)
		if err != nil {
			logUndecodable("decode rated movie", movieID, err)
			continue
		}
		rid, _ := primitive.ObjectIDFromHex(ratingID)
		records = append(records, models.RatedMovieRecord{
			RatingID: rid,
			UserID:   user,
			Rating:   nullNumber(value),
			Movie:    m,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("iterate rated movies", err)
	}
	return records, nil
}

// ListUsers returns the distinct user ids of the ratings, ascending.
func (s *Store) ListUsers(ctx context.Context) (users []string, err error) {
	defer observe("list_users", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM ratings ORDER BY user_id`)
	if err != nil {
		return nil, store.Unavailable("query users", err)
	}
	defer closeWithLog(rows, "rows")

	users = []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, store.Unavailable("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("iterate users", err)
	}
	return users, nil
}

// FindMovieByExternalID looks a movie up by imdb id.
func (s *Store) FindMovieByExternalID(ctx context.Context, imdbID int64) (movie *models.Movie, err error) {
	defer observe("find_by_external_id", time.Now(), &err)

	return s.queryMovie(ctx, "find movie by external id",
		`SELECT id, doc FROM movies WHERE imdb_id = ? ORDER BY id LIMIT 1`, imdbID)
}

// FindMovieByTitle matches the trimmed title exactly, and the year when given.
func (s *Store) FindMovieByTitle(ctx context.Context, title string, year int) (movie *models.Movie, err error) {
	defer observe("find_by_title", time.Now(), &err)

	query := `SELECT id, doc FROM movies WHERE title = ?`
	args := []interface{}{strings.TrimSpace(title)}
	if year > 0 {
		query += ` AND year = ?`
		args = append(args, year)
	}
	return s.queryMovie(ctx, "find movie by title", query+` ORDER BY id LIMIT 1`, args...)
}

// SearchMovie matches query as a case-insensitive substring of the title,
// the genres or the directors.
func (s *Store) SearchMovie(ctx context.Context, query string) (movie *models.Movie, err error) {
	defer observe("search_movie", time.Now(), &err)

	q := strings.ToLower(strings.TrimSpace(query))
	return s.queryMovie(ctx, "search movie",
		`SELECT id, doc FROM movies
		WHERE contains(lower(title), ?) OR contains(lower(genres), ?) OR contains(lower(directors), ?)
		ORDER BY id LIMIT 1`, q, q, q)
}

// InsertRating appends a rating.
func (s *Store) InsertRating(ctx context.Context, r *models.NewRating) (id primitive.ObjectID, err error) {
	defer observe("insert_rating", time.Now(), &err)

	id = primitive.NewObjectID()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ratings (id, movie_id, user_id, rating, comment, ts) VALUES (?, ?, ?, ?, ?, ?)`,
		id.Hex(), r.MovieID.Hex(), r.UserID, r.Rating, r.Comment, r.Timestamp.UTC())
	if err != nil {
		return primitive.NilObjectID, store.Unavailable("insert rating", err)
	}
	return id, nil
}

func (s *Store) queryMovies(ctx context.Context, op, query string, args ...interface{}) ([]models.Movie, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.Unavailable(op, err)
	}
	defer closeWithLog(rows, "rows")

	movies := []models.Movie{}
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, store.Unavailable(op, err)
		}
		m, err := decodeMovie(id, doc)
		if err != nil {
			logUndecodable(op, id, err)
			continue
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable(op, err)
	}
	return movies, nil
}

func (s *Store) queryMovie(ctx context.Context, op, query string, args ...interface{}) (*models.Movie, error) {
	var id, doc string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&id, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound(op)
	}
	if err != nil {
		return nil, store.Unavailable(op, err)
	}
	m, err := decodeMovie(id, doc)
	if err != nil {
		logUndecodable(op, id, err)
		return nil, store.NotFound(op)
	}
	return &m, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
