// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package models defines the movie and rating records Cinematch reads from its
document store, and the normalized form in which movies leave the service.

Stored Records:

  - Movie: a catalog entry. The fields the recommender reads (title, plot,
    fullplot, genres, imdb) are typed; everything else is kept verbatim in
    Movie.Extra so nothing in the source document is lost.
  - Rating: a user's 1-5 rating of a movie, referencing the movie by its
    store ObjectID.
  - Number: a tolerant numeric field. Catalog imports are inconsistent about
    whether numbers are stored as doubles, ints or strings (imdb.rating is ""
    for unrated titles), so every numeric field decodes through it.

Normalized Output:

Normalize converts a Movie into a Document, a JSON-ready map in which the
ObjectID is a hex string and every datetime is rendered with DateFormat.
Absent fields are omitted rather than defaulted.

	doc := models.Normalize(movie)
	// doc["_id"] == "573a1390f29313caabcd4135"
	// doc["released"] == "Sun, 01 Jan 1893 00:00:00 GMT"
*/
package models
