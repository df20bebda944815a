// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tomtom215/cinerec/internal/models"
)

// Precondition errors raised by the scorers. Both wrap models.ErrPrecondition.
var (
	// ErrDimensionMismatch is returned when two vectors of different length are compared.
	ErrDimensionMismatch = fmt.Errorf("%w: vector length mismatch", models.ErrPrecondition)

	// ErrEmptySeeds is returned when seed scoring is invoked without seeds.
	ErrEmptySeeds = fmt.Errorf("%w: empty seed set", models.ErrPrecondition)
)

// ScoredID is a movie ID with its score from one algorithm.
type ScoredID struct {
	ID    int     `json:"id"`
	Score float64 `json:"score"`
}

// SortScored orders by score descending, then ID ascending.
func SortScored(list []ScoredID) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].ID < list[j].ID
	})
}

// RankScores converts a score map to a sorted list truncated to limit.
// A limit <= 0 keeps every entry.
func RankScores(scores map[int]float64, limit int) []ScoredID {
	list := make([]ScoredID, 0, len(scores))
	for id, score := range scores {
		list = append(list, ScoredID{ID: id, Score: score})
	}
	SortScored(list)
	return Truncate(list, limit)
}

// Truncate returns at most limit entries. A limit <= 0 keeps every entry.
func Truncate(list []ScoredID, limit int) []ScoredID {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

// capIDs sorts ids ascending and keeps the first max. A max of 0 disables the cap.
func capIDs(ids []int, maxLen int) []int {
	sort.Ints(ids)
	if maxLen > 0 && len(ids) > maxLen {
		return ids[:maxLen]
	}
	return ids
}

// parallelFor runs fn(i) for i in [0, n) across workers goroutines using
// contiguous chunks. fn must only write to state owned by index i.
func parallelFor(ctx context.Context, n, workers int, fn func(i int)) error {
	if n == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	chunkSize := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if ContextCancelled(ctx) {
					return
				}
				fn(i)
			}
		}(start, end)
	}

	wg.Wait()
	return ctx.Err()
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
