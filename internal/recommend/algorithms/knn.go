// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"math"
	"sort"
)

// ========== Item-Based Collaborative Filtering ==========

// ItemCFConfig contains configuration for item-based CF.
type ItemCFConfig struct {
	// SeedThreshold is the minimum rating for a seed movie.
	SeedThreshold int

	// MaxRaters caps the rater neighborhood (lowest user IDs kept).
	// 0 disables the cap; negative uses the default.
	MaxRaters int

	// MinSimilarity drops item pairs with similarity at or below it.
	MinSimilarity float64

	// NumWorkers is the number of parallel workers.
	NumWorkers int
}

// DefaultItemCFConfig returns default item-based CF configuration.
func DefaultItemCFConfig() ItemCFConfig {
	return ItemCFConfig{
		SeedThreshold: 4,
		MaxRaters:     2000,
		MinSimilarity: 0.1,
		NumWorkers:    4,
	}
}

// ItemBasedCF recommends movies whose rater vectors resemble those of the
// user's highly rated movies.
//
// For seed i (rated r_i by the target) and candidate j:
//
//	sim(i, j) = sum_{u in R(i) ∩ R(j)} r(u,i) r(u,j) / (|i| |j|)
//	score(j)  = sum_i sim(i,j) r_i / sum_i sim(i,j)
//
// where norms are taken over each item's full sparse vector within the
// capped rater neighborhood.
type ItemBasedCF struct {
	config ItemCFConfig
}

// NewItemBasedCF creates a new item-based CF algorithm.
func NewItemBasedCF(cfg ItemCFConfig) *ItemBasedCF {
	def := DefaultItemCFConfig()
	if cfg.SeedThreshold <= 0 {
		cfg.SeedThreshold = def.SeedThreshold
	}
	if cfg.MaxRaters < 0 {
		cfg.MaxRaters = def.MaxRaters
	}
	if cfg.MinSimilarity < 0 {
		cfg.MinSimilarity = def.MinSimilarity
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = def.NumWorkers
	}
	return &ItemBasedCF{config: cfg}
}

// Name returns the algorithm identifier.
func (c *ItemBasedCF) Name() string { return "itemcf" }

// Score ranks movies the user has not rated. An empty result means no signal.
func (c *ItemBasedCF) Score(ctx context.Context, m *RatingMatrix, userID int) ([]ScoredID, error) {
	target := m.UserRatings(userID)

	seeds := make([]int, 0, len(target))
	for id, r := range target {
		if r >= float64(c.config.SeedThreshold) {
			seeds = append(seeds, id)
		}
	}
	if len(seeds) == 0 {
		return nil, nil
	}
	sort.Ints(seeds)

	raterSet := make(map[int]bool)
	for _, seed := range seeds {
		for uid := range m.Raters(seed) {
			if uid != userID {
				raterSet[uid] = true
			}
		}
	}
	if len(raterSet) == 0 {
		return nil, nil
	}
	raters := make([]int, 0, len(raterSet))
	for uid := range raterSet {
		raters = append(raters, uid)
	}
	raters = capIDs(raters, c.config.MaxRaters)

	// Item vectors over the capped neighborhood.
	columns := make(map[int]map[int]float64)
	for _, uid := range raters {
		for mid, r := range m.UserRatings(uid) {
			if columns[mid] == nil {
				columns[mid] = make(map[int]float64)
			}
			columns[mid][uid] = r
		}
	}
	vectors := make(map[int]sparseVector, len(columns))
	norms := make(map[int]float64, len(columns))
	for mid, col := range columns {
		vec := newSparseVector(col)
		vectors[mid] = vec
		norm := vec.norm()
		if norm == 0 {
			norm = 1
		}
		norms[mid] = norm
	}

	candidates := make([]int, 0, len(vectors))
	for mid := range vectors {
		if _, rated := target[mid]; !rated {
			candidates = append(candidates, mid)
		}
	}
	sort.Ints(candidates)

	// One similarity row per seed, merged in seed order below.
	rows := make([]map[int]float64, len(seeds))
	err := parallelFor(ctx, len(seeds), c.config.NumWorkers, func(i int) {
		seed := seeds[i]
		row := make(map[int]float64)
		for _, cand := range candidates {
			dot, _, _, overlap := vectors[seed].intersect(vectors[cand])
			if overlap == 0 {
				continue
			}
			sim := dot / (norms[seed] * norms[cand])
			if sim <= c.config.MinSimilarity {
				continue
			}
			row[cand] = sim
		}
		rows[i] = row
	})
	if err != nil {
		return nil, err
	}

	scores := make(map[int]float64)
	weights := make(map[int]float64)
	for i, seed := range seeds {
		rating := target[seed]
		for _, cand := range candidates {
			if sim, ok := rows[i][cand]; ok {
				scores[cand] += sim * rating
				weights[cand] += sim
			}
		}
	}

	for id, w := range weights {
		scores[id] /= w
	}
	return RankScores(scores, 0), nil
}

// ========== User-Based Collaborative Filtering ==========

// UserCFConfig contains configuration for user-based CF.
type UserCFConfig struct {
	// MaxNeighbors caps candidate neighbors (lowest user IDs kept).
	// 0 disables the cap; negative uses the default.
	MaxNeighbors int

	// TopNeighbors is the number of most similar neighbors aggregated.
	TopNeighbors int

	// NumWorkers is the number of parallel workers.
	NumWorkers int
}

// DefaultUserCFConfig returns default user-based CF configuration.
func DefaultUserCFConfig() UserCFConfig {
	return UserCFConfig{
		MaxNeighbors: 1000,
		TopNeighbors: 50,
		NumWorkers:   4,
	}
}

// neighbor represents a similar user with their similarity score.
type neighbor struct {
	ID         int
	Similarity float64
}

// UserBasedCF recommends what the most similar users rated.
//
//	sim(u, v)   = cosine over co-rated movies
//	score(u, m) = sum_{v in topK(u)} sim(u, v) * r(v, m)
//
// Contributions are summed, so broad neighbor agreement outranks a single
// strong opinion.
type UserBasedCF struct {
	config UserCFConfig
}

// NewUserBasedCF creates a new user-based CF algorithm.
func NewUserBasedCF(cfg UserCFConfig) *UserBasedCF {
	def := DefaultUserCFConfig()
	if cfg.MaxNeighbors < 0 {
		cfg.MaxNeighbors = def.MaxNeighbors
	}
	if cfg.TopNeighbors <= 0 {
		cfg.TopNeighbors = def.TopNeighbors
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = def.NumWorkers
	}
	return &UserBasedCF{config: cfg}
}

// Name returns the algorithm identifier.
func (c *UserBasedCF) Name() string { return "usercf" }

// Score ranks movies the user has not rated. An empty result means no signal.
func (c *UserBasedCF) Score(ctx context.Context, m *RatingMatrix, userID int) ([]ScoredID, error) {
	target := m.UserRatings(userID)
	if len(target) == 0 {
		return nil, nil
	}

	candidateSet := make(map[int]bool)
	for mid := range target {
		for uid := range m.Raters(mid) {
			if uid != userID {
				candidateSet[uid] = true
			}
		}
	}
	if len(candidateSet) == 0 {
		return nil, nil
	}
	candidates := make([]int, 0, len(candidateSet))
	for uid := range candidateSet {
		candidates = append(candidates, uid)
	}
	candidates = capIDs(candidates, c.config.MaxNeighbors)

	targetVec := newSparseVector(target)
	sims := make([]float64, len(candidates))
	err := parallelFor(ctx, len(candidates), c.config.NumWorkers, func(i int) {
		sims[i] = coRatedCosine(targetVec, newSparseVector(m.UserRatings(candidates[i])))
	})
	if err != nil {
		return nil, err
	}

	neighbors := make([]neighbor, 0, len(candidates))
	for i, uid := range candidates {
		if sims[i] > 0 {
			neighbors = append(neighbors, neighbor{ID: uid, Similarity: sims[i]})
		}
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].ID < neighbors[j].ID
	})
	if len(neighbors) > c.config.TopNeighbors {
		neighbors = neighbors[:c.config.TopNeighbors]
	}

	scores := make(map[int]float64)
	for _, n := range neighbors {
		row := m.UserRatings(n.ID)
		for _, mid := range sortedMovieIDs(row) {
			if _, rated := target[mid]; rated {
				continue
			}
			scores[mid] += n.Similarity * row[mid]
		}
	}

	return RankScores(scores, 0), nil
}

// coRatedCosine is the cosine of two rating rows restricted to movies both rated.
func coRatedCosine(a, b sparseVector) float64 {
	dot, normA, normB, overlap := a.intersect(b)
	if overlap == 0 || normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// sparseVector holds entries sorted by key so that every sum runs in the
// same order and results are bit-for-bit repeatable.
type sparseVector struct {
	keys []int
	vals []float64
}

func newSparseVector(m map[int]float64) sparseVector {
	keys := sortedMovieIDs(m)
	vals := make([]float64, len(keys))
	for i, k := range keys {
		vals[i] = m[k]
	}
	return sparseVector{keys: keys, vals: vals}
}

// norm returns the L2 norm over all entries.
func (v sparseVector) norm() float64 {
	var sq float64
	for _, x := range v.vals {
		sq += x * x
	}
	return math.Sqrt(sq)
}

// intersect merge-joins two vectors and returns the dot product, both squared
// norms over the shared keys, and the number of shared keys.
func (v sparseVector) intersect(o sparseVector) (dot, sqA, sqB float64, overlap int) {
	i, j := 0, 0
	for i < len(v.keys) && j < len(o.keys) {
		switch {
		case v.keys[i] < o.keys[j]:
			i++
		case v.keys[i] > o.keys[j]:
			j++
		default:
			a, b := v.vals[i], o.vals[j]
			dot += a * b
			sqA += a * a
			sqB += b * b
			overlap++
			i++
			j++
		}
	}
	return dot, sqA, sqB, overlap
}
