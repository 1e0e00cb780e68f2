// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is created on first use and shared by every
// caller; it caches struct metadata, so it is cheap to call per request.
// Field names in error messages are taken from the json tag, so clients see
// the same names they sent.
//
// # Usage
//
//	req := validation.UserIDRequest{UserID: chi.URLParam(r, "userID")}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Request types
//
//   - UserIDRequest: a path user id that must be a UUID
//   - RatingSubmission: the body of POST /rate and the payload of the
//     ratings.submitted message
package validation
