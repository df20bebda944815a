// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

// NormalizeByMax divides every score by the list maximum so the top entry
// scores 1. Lists whose maximum is not positive are returned unchanged.
func NormalizeByMax(list []ScoredID) []ScoredID {
	maxScore := 0.0
	for _, s := range list {
		if s.Score > maxScore {
			maxScore = s.Score
		}
	}
	out := make([]ScoredID, len(list))
	copy(out, list)
	if maxScore <= 0 {
		return out
	}
	for i := range out {
		out[i].Score /= maxScore
	}
	return out
}

// MeanScores averages several ranked lists per ID. An ID present in only
// some lists averages over the lists that contain it.
func MeanScores(lists ...[]ScoredID) []ScoredID {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, list := range lists {
		for _, s := range list {
			sums[s.ID] += s.Score
			counts[s.ID]++
		}
	}
	for id, n := range counts {
		sums[id] /= float64(n)
	}
	return RankScores(sums, 0)
}

// Combine merges a content list and a collaborative list:
//
//	combined = contentWeight*content + collabWeight*collab
//
// A movie missing from one list contributes only its weighted present score.
// The result is sorted and truncated to limit.
func Combine(content, collab []ScoredID, contentWeight, collabWeight float64, limit int) []ScoredID {
	combined := make(map[int]float64, len(content)+len(collab))
	for _, s := range content {
		combined[s.ID] += contentWeight * s.Score
	}
	for _, s := range collab {
		combined[s.ID] += collabWeight * s.Score
	}
	return RankScores(combined, limit)
}
