// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/cinerec/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateRecord_Movie(t *testing.T) {
	tests := []struct {
		name       string
		movie      models.MovieRecord
		wantFields []string
	}{
		{
			name:  "valid movie",
			movie: models.MovieRecord{ID: 1, Title: "Heat", Genres: []string{"Action", "Crime"}, Popularity: 7.9},
		},
		{
			name:  "no genres is valid",
			movie: models.MovieRecord{ID: 2, Title: "Untitled"},
		},
		{
			name:       "zero id and empty title",
			movie:      models.MovieRecord{ID: 0, Title: ""},
			wantFields: []string{"id", "title"},
		},
		{
			name:       "popularity above scale",
			movie:      models.MovieRecord{ID: 3, Title: "Loud", Popularity: 11},
			wantFields: []string{"popularity"},
		},
		{
			name:       "blank genre label",
			movie:      models.MovieRecord{ID: 4, Title: "Blank", Genres: []string{"Drama", ""}},
			wantFields: []string{"genres[1]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(&tt.movie)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("ValidateRecord() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidRecord) {
				t.Fatalf("error should wrap ErrInvalidRecord, got %v", err)
			}
			var rerr *RecordError
			if !errors.As(err, &rerr) {
				t.Fatalf("error should be *RecordError, got %T", err)
			}
			if rerr.Record != "MovieRecord" {
				t.Errorf("Record = %q, want MovieRecord", rerr.Record)
			}
			for _, f := range tt.wantFields {
				if !rerr.HasField(f) {
					t.Errorf("expected field %q in %v", f, rerr)
				}
			}
		})
	}
}

func TestValidateRecord_Rating(t *testing.T) {
	err := ValidateRecord(&models.Rating{UserID: 0, MovieID: 5, Value: 3})
	if err == nil {
		t.Fatal("expected error for zero user id")
	}
	if want := "Rating: user_id must be greater than 0"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if err := ValidateRecord(&models.Rating{UserID: 1, MovieID: 5, Value: 3}); err != nil {
		t.Errorf("valid rating returned %v", err)
	}
}

func TestValidateRecord_NotAStruct(t *testing.T) {
	err := ValidateRecord(42)
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("ValidateRecord(42) = %v, want ErrInvalidRecord", err)
	}
}

func TestFieldError_Messages(t *testing.T) {
	tests := []struct {
		fe   FieldError
		want string
	}{
		{FieldError{Field: "title", Rule: "required"}, "title is required"},
		{FieldError{Field: "popularity", Rule: "lte", Param: "10"}, "popularity must be at most 10"},
		{FieldError{Field: "popularity", Rule: "gte", Param: "0"}, "popularity must be at least 0"},
		{FieldError{Field: "kind", Rule: "oneof", Param: "a b"}, "kind must be one of: a b"},
		{FieldError{Field: "x", Rule: "uuid4"}, "x failed uuid4"},
	}
	for _, tt := range tests {
		if got := tt.fe.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestRecordError_Empty(t *testing.T) {
	e := &RecordError{Record: "Rating"}
	if !strings.HasSuffix(e.Error(), "validation failed") {
		t.Errorf("Error() = %q", e.Error())
	}
}
