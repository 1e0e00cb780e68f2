// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package mongostore is the MongoDB backend of the document store. It reads
// the movies and ratings collections of an mflix-shaped database.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/store"
)

const backendName = "mongo"

// Store reads and writes the movies and ratings collections.
type Store struct {
	client  *mongo.Client
	movies  *mongo.Collection
	ratings *mongo.Collection
}

var _ store.Backend = (*Store)(nil)

// Open connects to MongoDB and verifies the connection with a ping.
func Open(ctx context.Context, cfg *config.MongoConfig) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetAppName("cinematch")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, store.Unavailable("connect", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		if dErr := client.Disconnect(context.Background()); dErr != nil {
			logging.Warn().Err(dErr).Msg("Failed to disconnect after ping failure")
		}
		return nil, store.Unavailable("ping", err)
	}

	db := client.Database(cfg.Database)
	s := New(client, db.Collection(cfg.MoviesCollection), db.Collection(cfg.RatingsCollection))

	logging.Info().
		Str("database", cfg.Database).
		Str("movies", cfg.MoviesCollection).
		Str("ratings", cfg.RatingsCollection).
		Msg("Connected to MongoDB")

	return s, nil
}

// New wraps already opened collections.
func New(client *mongo.Client, movies, ratings *mongo.Collection) *Store {
	return &Store{client: client, movies: movies, ratings: ratings}
}

// Name implements store.Backend.
func (s *Store) Name() string { return backendName }

// EnsureIndexes creates the indexes the queries rely on. Existing indexes
// with the same keys are left alone.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.ratings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "movieId", Value: 1}}},
	})
	if err != nil {
		return store.Unavailable("create rating indexes", err)
	}

	_, err = s.movies.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "imdb.id", Value: 1}}},
		{Keys: bson.D{{Key: "imdb.rating", Value: -1}}},
		{Keys: bson.D{{Key: "title", Value: 1}, {Key: "year", Value: 1}}},
	})
	if err != nil {
		return store.Unavailable("create movie indexes", err)
	}
	return nil
}

// observe records the duration and outcome of op.
func observe(op string, start time.Time, err *error) {
	metrics.RecordStoreQuery(backendName, op, time.Since(start), *err)
}

// GetRatedItems loads the user's ratings in insertion order, then their
// movies in a single $in query.
func (s *Store) GetRatedItems(ctx context.Context, userID string) (history *models.RatingHistory, err error) {
	defer observe("get_rated_items", time.Now(), &err)

	cur, err := s.ratings.Find(ctx,
		bson.D{{Key: "userId", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}),
	)
	if err != nil {
		return nil, store.Unavailable("find ratings", err)
	}
	ratings, badRatings, err := decodeEach[models.Rating](ctx, cur, "decode ratings")
	if err != nil {
		return nil, err
	}

	refs := store.MovieRefs(ratings)
	movies := make(map[primitive.ObjectID]models.Movie, len(refs))
	if len(refs) > 0 {
		cur, err := s.movies.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: refs}}}})
		if err != nil {
			return nil, store.Unavailable("find rated movies", err)
		}
		found, _, err := decodeEach[models.Movie](ctx, cur, "decode rated movies")
		if err != nil {
			return nil, err
		}
		for i := range found {
			movies[found[i].ID] = found[i]
		}
	}

	history = store.BuildHistory(ratings, movies)
	history.Skipped += badRatings
	return history, nil
}

// topQualityPipeline sorts numeric imdb ratings first. A plain sort on
// imdb.rating would put string values such as "" above every number.
func topQualityPipeline(n int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$addFields", Value: bson.D{{Key: "_quality", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$isNumber", Value: "$imdb.rating"}}, "$imdb.rating", -1,
		}}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_quality", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: int64(n)}},
		{{Key: "$project", Value: bson.D{{Key: "_quality", Value: 0}}}},
	}
}

// GetTopQualityItems returns up to n movies by imdb rating, descending.
func (s *Store) GetTopQualityItems(ctx context.Context, n int) (movies []models.Movie, err error) {
	defer observe("get_top_quality_items", time.Now(), &err)

	if n <= 0 {
		return []models.Movie{}, nil
	}

	cur, err := s.movies.Aggregate(ctx, topQualityPipeline(n))
	if err != nil {
		return nil, store.Unavailable("aggregate top movies", err)
	}
	movies, _, err = decodeEach[models.Movie](ctx, cur, "decode top movies")
	return movies, err
}

// GetItem returns the movie with id.
func (s *Store) GetItem(ctx context.Context, id primitive.ObjectID) (movie *models.Movie, found bool, err error) {
	defer observe("get_item", time.Now(), &err)

	movie, err = s.findOne(ctx, "get item", bson.D{{Key: "_id", Value: id}})
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return movie, true, nil
}

// ratedMoviesPipeline joins ratings with their movie. Ratings whose movie is
// gone are dropped by $unwind.
func ratedMoviesPipeline(moviesColl, userID string) mongo.Pipeline {
	p := mongo.Pipeline{}
	if userID != "" {
		p = append(p, bson.D{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}})
	}
	return append(p,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: moviesColl},
			{Key: "localField", Value: "movieId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "movie"},
		}}},
		bson.D{{Key: "$unwind", Value: "$movie"}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}}},
	)
}

// ListRatedMovies joins ratings with movies, best user rating first.
func (s *Store) ListRatedMovies(ctx context.Context, userID string) (records []models.RatedMovieRecord, err error) {
	defer observe("list_rated_movies", time.Now(), &err)

	cur, err := s.ratings.Aggregate(ctx, ratedMoviesPipeline(s.movies.Name(), userID))
	if err != nil {
		return nil, store.Unavailable("aggregate rated movies", err)
	}
	records, _, err = decodeEach[models.RatedMovieRecord](ctx, cur, "decode rated movies")
	return records, err
}

// ListUsers returns the distinct user ids of the ratings, ascending.
func (s *Store) ListUsers(ctx context.Context) (users []string, err error) {
	defer observe("list_users", time.Now(), &err)

	values, err := s.ratings.Distinct(ctx, "userId", bson.D{})
	if err != nil {
		return nil, store.Unavailable("distinct users", err)
	}

	users = make([]string, 0, len(values))
	for _, v := range values {
		switch id := v.(type) {
		case nil:
		case string:
			users = append(users, id)
		default:
			users = append(users, fmt.Sprint(id))
		}
	}
	sort.Strings(users)
	return users, nil
}

// Ping verifies the primary is reachable.
func (s *Store) Ping(ctx context.Context) (err error) {
	defer observe("ping", time.Now(), &err)

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return store.Unavailable("ping", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

// FindMovieByExternalID looks a movie up by imdb.id.
func (s *Store) FindMovieByExternalID(ctx context.Context, imdbID int64) (movie *models.Movie, err error) {
	defer observe("find_by_external_id", time.Now(), &err)

	return s.findOne(ctx, "find movie by external id", bson.D{{Key: "imdb.id", Value: imdbID}})
}

// FindMovieByTitle matches the trimmed title exactly, and the year when given.
func (s *Store) FindMovieByTitle(ctx context.Context, title string, year int) (movie *models.Movie, err error) {
	defer observe("find_by_title", time.Now(), &err)

	filter := bson.D{{Key: "title", Value: strings.TrimSpace(title)}}
	if year > 0 {
		filter = append(filter, bson.E{Key: "year", Value: year})
	}
	return s.findOne(ctx, "find movie by title", filter)
}

// SearchMovie matches query as a case-insensitive literal substring of the
// title, any genre or any director.
func (s *Store) SearchMovie(ctx context.Context, query string) (movie *models.Movie, err error) {
	defer observe("search_movie", time.Now(), &err)

	re := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(query)), Options: "i"}
	return s.findOne(ctx, "search movie", bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "title", Value: re}},
		bson.D{{Key: "genres", Value: re}},
		bson.D{{Key: "directors", Value: re}},
	}}})
}

// InsertRating stores a rating document.
func (s *Store) InsertRating(ctx context.Context, r *models.NewRating) (id primitive.ObjectID, err error) {
	defer observe("insert_rating", time.Now(), &err)

	res, err := s.ratings.InsertOne(ctx, r)
	if err != nil {
		return primitive.NilObjectID, store.Unavailable("insert rating", err)
	}
	id, _ = res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// decodeEach decodes the cursor one document at a time. A document that
// cannot be decoded is logged and counted in skipped; only a cursor error
// fails the query.
func decodeEach[T any](ctx context.Context, cur *mongo.Cursor, op string) (out []T, skipped int, err error) {
	defer func() {
		if cErr := cur.Close(context.WithoutCancel(ctx)); cErr != nil {
			logging.Warn().Err(cErr).Str("op", op).Msg("Failed to close cursor")
		}
	}()

	out = []T{}
	for cur.Next(ctx) {
		var v T
		if dErr := cur.Decode(&v); dErr != nil {
			skipped++
			logging.Warn().Err(dErr).
				Str("op", op).
				Str("id", rawID(cur.Current)).
				Msg("Skipping undecodable document")
			continue
		}
		out = append(out, v)
	}
	if err := cur.Err(); err != nil {
		return nil, skipped, store.Unavailable(op, err)
	}
	return out, skipped, nil
}

// rawID renders a document's _id for logs.
func rawID(doc bson.Raw) string {
	v, err := doc.LookupErr("_id")
	if err != nil {
		return ""
	}
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	return v.String()
}

func (s *Store) findOne(ctx context.Context, op string, filter bson.D) (*models.Movie, error) {
	var m models.Movie
	err := s.movies.FindOne(ctx, filter).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.NotFound(op)
	}
	if err != nil {
		return nil, store.Unavailable(op, err)
	}
	return &m, nil
}
