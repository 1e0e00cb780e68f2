// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package mongostore

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tomtom215/cinematch/internal/models"
)

func stageNames(p []bson.D) []string {
	names := make([]string, len(p))
	for i, stage := range p {
		names[i] = stage[0].Key
	}
	return names
}

func TestTopQualityPipeline(t *testing.T) {
	t.Parallel()

	p := topQualityPipeline(100)
	want := []string{"$addFields", "$sort", "$limit", "$project"}
	got := stageNames(p)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stages = %v, want %v", got, want)
		}
	}
	if limit := p[2][0].Value; limit != int64(100) {
		t.Errorf("$limit = %v, want 100", limit)
	}

	sortSpec := p[1][0].Value.(bson.D)
	if sortSpec[0].Key != "_quality" || sortSpec[1].Key != "_id" {
		t.Errorf("$sort = %v, want _quality then _id", sortSpec)
	}
}

func TestRatedMoviesPipeline(t *testing.T) {
	t.Parallel()

	all := stageNames(ratedMoviesPipeline("movies", ""))
	if len(all) != 3 || all[0] != "$lookup" {
		t.Errorf("unfiltered stages = %v", all)
	}

	p := ratedMoviesPipeline("films", "u-1")
	got := stageNames(p)
	if len(got) != 4 || got[0] != "$match" || got[1] != "$lookup" || got[2] != "$unwind" {
		t.Fatalf("filtered stages = %v", got)
	}
	lookup := p[1][0].Value.(bson.D)
	if lookup[0].Key != "from" || lookup[0].Value != "films" {
		t.Errorf("$lookup from = %v, want films", lookup[0])
	}
}

func TestDecodeEach_SkipsUndecodableDocuments(t *testing.T) {
	t.Parallel()

	good := primitive.NewObjectID()
	cur, err := mongo.NewCursorFromDocuments([]interface{}{
		bson.D{{Key: "_id", Value: good}, {Key: "movie", Value: bson.D{{Key: "title", Value: "Heat"}}}},
		bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "userId", Value: int32(7)}},
		bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "movie", Value: bson.D{{Key: "title", Value: int32(1776)}}}},
	}, nil, nil)
	if err != nil {
		t.Fatalf("NewCursorFromDocuments: %v", err)
	}

	records, skipped, err := decodeEach[models.RatedMovieRecord](context.Background(), cur, "decode rated movies")
	if err != nil {
		t.Fatalf("decodeEach: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].RatingID != good || records[0].Movie.Title != "Heat" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if got := records[1].Movie.Extra["title"]; got != int32(1776) {
		t.Errorf("mistyped title kept as %#v, want raw 1776", got)
	}
}

func TestDecodeEach_MixedRatings(t *testing.T) {
	t.Parallel()

	movieID := primitive.NewObjectID()
	cur, err := mongo.NewCursorFromDocuments([]interface{}{
		bson.M{"movieId": movieID, "userId": "u", "rating": 5, "comment": 5},
		bson.M{"movieId": movieID, "userId": "u", "rating": 3, "timestamp": "yesterday"},
	}, nil, nil)
	if err != nil {
		t.Fatalf("NewCursorFromDocuments: %v", err)
	}

	ratings, skipped, err := decodeEach[models.Rating](context.Background(), cur, "decode ratings")
	if err != nil || skipped != 0 {
		t.Fatalf("decodeEach = skipped %d, err %v", skipped, err)
	}
	if len(ratings) != 2 || ratings[0].Rating.Or(0) != 5 || ratings[1].Rating.Or(0) != 3 {
		t.Errorf("ratings = %+v", ratings)
	}
}
