// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package duckstore

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/store"
)

// ImportMovies upserts movies in one transaction. Movies without an id get one.
func (s *Store) ImportMovies(ctx context.Context, movies []models.Movie) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Unavailable("begin import", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO movies
		(id, imdb_id, quality, title, year, genres, directors, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return store.Unavailable("prepare import", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for i := range movies {
		if movies[i].ID.IsZero() {
			movies[i].ID = primitive.NewObjectID()
		}
		row, err := encodeMovie(movies[i])
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			row.id, row.imdbID, row.quality, row.title, row.year, row.genres, row.directors, row.doc,
		); err != nil {
			return store.Unavailable("import movie", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return store.Unavailable("commit import", err)
	}
	return nil
}

// LoadSeedFile imports a JSON array of movie documents when the movies table
// is empty, and returns how many were imported. The file may be plain JSON
// or MongoDB extended JSON as written by mongoexport --jsonArray.
func (s *Store) LoadSeedFile(ctx context.Context, path string) (int, error) {
	var existing int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM movies`).Scan(&existing); err != nil {
		return 0, store.Unavailable("count movies", err)
	}
	if existing > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	movies, err := ParseMovies(data)
	if err != nil {
		return 0, err
	}
	if err := s.ImportMovies(ctx, movies); err != nil {
		return 0, err
	}
	return len(movies), nil
}

// ParseMovies decodes a JSON array of movie documents.
func ParseMovies(data []byte) ([]models.Movie, error) {
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse seed array: %w", err)
	}

	movies := make([]models.Movie, 0, len(docs))
	for i, doc := range docs {
		var m models.Movie
		if err := bson.UnmarshalExtJSON(doc, false, &m); err != nil {
			return nil, fmt.Errorf("parse seed movie %d: %w", i, err)
		}
		movies = append(movies, m)
	}
	return movies, nil
}
