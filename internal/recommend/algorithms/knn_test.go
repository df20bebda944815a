// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/cinerec/internal/models"
)

func ratings(triples ...[3]int) []models.Rating {
	out := make([]models.Rating, 0, len(triples))
	for _, tr := range triples {
		out = append(out, models.Rating{UserID: tr[0], MovieID: tr[1], Value: tr[2]})
	}
	return out
}

// testMatrix is a small community: user 1 is the target.
func testMatrix() *RatingMatrix {
	return NewRatingMatrix(ratings(
		[3]int{1, 100, 5}, [3]int{1, 101, 4}, [3]int{1, 102, 2},
		[3]int{2, 100, 5}, [3]int{2, 101, 4}, [3]int{2, 200, 5}, [3]int{2, 201, 2},
		[3]int{3, 100, 4}, [3]int{3, 200, 4}, [3]int{3, 202, 5},
		[3]int{4, 102, 5}, [3]int{4, 203, 5},
		[3]int{5, 300, 5},
	))
}

func TestNewItemBasedCF(t *testing.T) {
	tests := []struct {
		name string
		cfg  ItemCFConfig
		want ItemCFConfig
	}{
		{
			name: "applies defaults for negative and zero values",
			cfg:  ItemCFConfig{MaxRaters: -1, MinSimilarity: -1},
			want: DefaultItemCFConfig(),
		},
		{
			name: "zero cap disables capping",
			cfg:  ItemCFConfig{SeedThreshold: 8, MaxRaters: 0, MinSimilarity: 0.2, NumWorkers: 2},
			want: ItemCFConfig{SeedThreshold: 8, MaxRaters: 0, MinSimilarity: 0.2, NumWorkers: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewItemBasedCF(tt.cfg)
			if c.config != tt.want {
				t.Errorf("config = %+v, want %+v", c.config, tt.want)
			}
			if c.Name() != "itemcf" {
				t.Errorf("Name() = %q, want itemcf", c.Name())
			}
		})
	}
}

func TestItemBasedCF_WorkedExample(t *testing.T) {
	m := NewRatingMatrix(ratings(
		[3]int{1, 100, 5},
		[3]int{2, 100, 5}, [3]int{2, 200, 4},
		[3]int{3, 100, 5}, [3]int{3, 200, 5},
	))

	got, err := NewItemBasedCF(DefaultItemCFConfig()).Score(context.Background(), m, 1)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != 200 {
		t.Fatalf("Score() = %v, want movie 200", got)
	}
	if got[0].Score <= 0 {
		t.Errorf("score = %v, want positive", got[0].Score)
	}
	// Weighted average of a single seed rated 5.
	if math.Abs(got[0].Score-5) > epsilon {
		t.Errorf("score = %v, want 5", got[0].Score)
	}

	// Similarity on the intersection {2, 3} is close to 1.
	v100 := newSparseVector(m.Raters(100))
	v200 := newSparseVector(m.Raters(200))
	dot, _, _, _ := v100.intersect(v200)
	sim := dot / (v100.norm() * v200.norm())
	if sim < 0.99 {
		t.Errorf("sim(100, 200) = %v, want close to 1", sim)
	}
}

func TestItemBasedCF_ExcludesRated(t *testing.T) {
	m := testMatrix()
	got, err := NewItemBasedCF(DefaultItemCFConfig()).Score(context.Background(), m, 1)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected recommendations")
	}
	rated := m.UserRatings(1)
	for _, s := range got {
		if _, ok := rated[s.ID]; ok {
			t.Errorf("output contains rated movie %d", s.ID)
		}
	}
	assertNonIncreasing(t, got)
}

func TestItemBasedCF_NoSignal(t *testing.T) {
	tests := []struct {
		name   string
		matrix *RatingMatrix
		user   int
	}{
		{"unknown user", testMatrix(), 99},
		{"only low ratings", NewRatingMatrix(ratings([3]int{1, 1, 2}, [3]int{2, 1, 5}, [3]int{2, 2, 5})), 1},
		{"no other raters", NewRatingMatrix(ratings([3]int{1, 1, 5}, [3]int{2, 2, 5})), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewItemBasedCF(DefaultItemCFConfig()).Score(context.Background(), tt.matrix, tt.user)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if len(got) != 0 {
				t.Errorf("Score() = %v, want empty", got)
			}
		})
	}
}

func TestItemBasedCF_SeedThresholdFollowsScale(t *testing.T) {
	// On a 1-10 scale a 6 is not a positive rating.
	m := NewRatingMatrix(ratings(
		[3]int{1, 1, 6},
		[3]int{2, 1, 9}, [3]int{2, 2, 9},
	))
	cfg := DefaultItemCFConfig()
	cfg.SeedThreshold = models.RatingScale{Min: 1, Max: 10}.PositiveThreshold(0.75)

	got, _ := NewItemBasedCF(cfg).Score(context.Background(), m, 1)
	if len(got) != 0 {
		t.Errorf("Score() = %v, want empty below threshold %d", got, cfg.SeedThreshold)
	}
}

func TestItemBasedCF_RaterCap(t *testing.T) {
	// Users 2 and 3 link seed 10 to different candidates.
	m := NewRatingMatrix(ratings(
		[3]int{1, 10, 5},
		[3]int{2, 10, 5}, [3]int{2, 20, 5},
		[3]int{3, 10, 5}, [3]int{3, 30, 5},
	))
	cfg := DefaultItemCFConfig()
	cfg.MaxRaters = 1

	got, _ := NewItemBasedCF(cfg).Score(context.Background(), m, 1)
	if len(got) != 1 || got[0].ID != 20 {
		t.Errorf("Score() = %v, want only movie 20 from rater 2", got)
	}
}

func TestItemBasedCF_Deterministic(t *testing.T) {
	m := testMatrix()
	cf := NewItemBasedCF(ItemCFConfig{NumWorkers: 3, MaxRaters: -1, MinSimilarity: -1})

	first, _ := cf.Score(context.Background(), m, 1)
	for i := 0; i < 20; i++ {
		again, _ := cf.Score(context.Background(), m, 1)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
}

func TestItemBasedCF_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewItemBasedCF(DefaultItemCFConfig()).Score(ctx, testMatrix(), 1); err == nil {
		t.Error("Score() with cancelled context should fail")
	}
}

func TestUserBasedCF_Score(t *testing.T) {
	m := testMatrix()
	got, err := NewUserBasedCF(DefaultUserCFConfig()).Score(context.Background(), m, 1)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected recommendations")
	}

	rated := m.UserRatings(1)
	for _, s := range got {
		if _, ok := rated[s.ID]; ok {
			t.Errorf("output contains rated movie %d", s.ID)
		}
		if s.ID == 300 {
			t.Error("movie 300 is only reachable through an unconnected user")
		}
	}
	assertNonIncreasing(t, got)

	// 200 is rated by neighbors 2 and 3, so its contributions are summed.
	if got[0].ID != 200 {
		t.Errorf("top = %d, want 200", got[0].ID)
	}
}

func TestUserBasedCF_SumsContributions(t *testing.T) {
	// Target shares movie 1 with users 2 and 3; both rate movie 9.
	m := NewRatingMatrix(ratings(
		[3]int{1, 1, 5},
		[3]int{2, 1, 5}, [3]int{2, 9, 3},
		[3]int{3, 1, 5}, [3]int{3, 9, 3}, [3]int{3, 8, 5},
	))

	got, _ := NewUserBasedCF(DefaultUserCFConfig()).Score(context.Background(), m, 1)
	want := []ScoredID{{ID: 9, Score: 6}, {ID: 8, Score: 5}}
	if len(got) != len(want) {
		t.Fatalf("Score() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].ID != want[i].ID || math.Abs(got[i].Score-want[i].Score) > epsilon {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUserBasedCF_TopNeighbors(t *testing.T) {
	// User 2 agrees with the target; user 3 disagrees on direction.
	m := NewRatingMatrix(ratings(
		[3]int{1, 1, 5}, [3]int{1, 2, 1},
		[3]int{2, 1, 5}, [3]int{2, 2, 1}, [3]int{2, 50, 4},
		[3]int{3, 1, 1}, [3]int{3, 2, 5}, [3]int{3, 60, 5},
	))

	got, _ := NewUserBasedCF(UserCFConfig{TopNeighbors: 1, MaxNeighbors: -1}).Score(context.Background(), m, 1)
	if len(got) != 1 || got[0].ID != 50 {
		t.Errorf("Score() = %v, want only movie 50 from the closest neighbor", got)
	}
}

func TestUserBasedCF_NoSignal(t *testing.T) {
	tests := []struct {
		name   string
		matrix *RatingMatrix
	}{
		{"no ratings", NewRatingMatrix(ratings([3]int{2, 1, 5}))},
		{"no overlap", NewRatingMatrix(ratings([3]int{1, 1, 5}, [3]int{2, 2, 5}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewUserBasedCF(DefaultUserCFConfig()).Score(context.Background(), tt.matrix, 1)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if len(got) != 0 {
				t.Errorf("Score() = %v, want empty", got)
			}
		})
	}
}

func TestUserBasedCF_Deterministic(t *testing.T) {
	m := testMatrix()
	cf := NewUserBasedCF(UserCFConfig{NumWorkers: 3, MaxNeighbors: -1})

	first, _ := cf.Score(context.Background(), m, 1)
	for i := 0; i < 20; i++ {
		again, _ := cf.Score(context.Background(), m, 1)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
}

func TestCoRatedCosine(t *testing.T) {
	a := newSparseVector(map[int]float64{1: 5, 2: 3, 3: 4})
	b := newSparseVector(map[int]float64{1: 5, 2: 3, 9: 1})
	if got := coRatedCosine(a, b); math.Abs(got-1) > epsilon {
		t.Errorf("coRatedCosine() = %v, want 1 on proportional co-ratings", got)
	}

	c := newSparseVector(map[int]float64{7: 5})
	if got := coRatedCosine(a, c); got != 0 {
		t.Errorf("coRatedCosine() without overlap = %v, want 0", got)
	}
}
