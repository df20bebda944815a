// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"errors"
	"testing"

	"github.com/tomtom215/cinerec/internal/models"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "content_based", want: ModeContentBased},
		{input: "item_based", want: ModeItemBased},
		{input: "user_based", want: ModeUserBased},
		{input: "hybrid", want: ModeHybrid},
		{input: "Hybrid", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrPrecondition) {
					t.Errorf("ParseMode(%q) error = %v, want ErrPrecondition", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestModes(t *testing.T) {
	for _, m := range Modes() {
		if !m.Valid() {
			t.Errorf("Modes() contains invalid mode %q", m)
		}
	}
	if len(Modes()) != 4 {
		t.Errorf("len(Modes()) = %d, want 4", len(Modes()))
	}
}

func TestResponse_MovieIDs(t *testing.T) {
	resp := &Response{Items: []ScoredMovie{
		{Movie: models.MovieRecord{ID: 7}},
		{Movie: models.MovieRecord{ID: 3}},
	}}
	got := resp.MovieIDs()
	if len(got) != 2 || got[0] != 7 || got[1] != 3 {
		t.Errorf("MovieIDs() = %v, want [7 3]", got)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	for _, err := range []error{ErrInvalidRequest, ErrDimensionMismatch, ErrEmptySeeds, models.ErrInvalidRating} {
		if !errors.Is(err, ErrPrecondition) {
			t.Errorf("%v should wrap ErrPrecondition", err)
		}
	}
	if errors.Is(models.ErrMovieNotFound, ErrPrecondition) {
		t.Error("ErrMovieNotFound should not be a precondition error")
	}
}
