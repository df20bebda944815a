// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend/algorithms"
)

// Algorithm names reported in ResponseMetadata.AlgorithmsUsed.
const (
	algorithmContent    = "content"
	algorithmPreference = "preference"
)

// modeResult is the ranked output of one mode before hydration.
type modeResult struct {
	ranked     []algorithms.ScoredID
	source     Source
	known      map[int]models.MovieRecord
	algorithms []string
}

func newModeResult(source Source) *modeResult {
	return &modeResult{source: source, known: make(map[int]models.MovieRecord)}
}

// runMode dispatches to the scorer for req.Mode. Only precondition and
// context errors are returned; collaborator failures yield an empty result.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) runMode(ctx context.Context, req Request, history *models.UserHistory, logger zerolog.Logger) (*modeResult, error) {
	switch req.Mode {
	case ModeContentBased:
		return e.scoreContent(ctx, req, history, logger)
	case ModeItemBased:
		return e.scoreItemBased(ctx, history, logger)
	case ModeUserBased:
		return e.scoreUserBased(ctx, history, logger)
	case ModeHybrid:
		return e.scoreHybrid(ctx, req, history, logger)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, req.Mode)
	}
}

// scoreContent ranks popular movies by genre similarity. Positive ratings
// act as seeds; explicit preferred genres, or the top genres of a history
// without seeds, build a preference vector instead.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) scoreContent(ctx context.Context, req Request, history *models.UserHistory, logger zerolog.Logger) (*modeResult, error) {
	res := newModeResult(SourceContent)

	universe := e.genreUniverse(ctx, logger)
	if len(universe) == 0 {
		return res, nil
	}
	space := algorithms.NewGenreSpace(universe)

	pool := e.popular(ctx, e.config.Content.Pool, logger)
	for i := range pool {
		res.known[pool[i].ID] = pool[i]
	}

	seen := history.Seen(e.config.ExcludeViewed)
	candidates := make([]models.MovieRecord, 0, len(pool))
	for i := range pool {
		if !seen[pool[i].ID] {
			candidates = append(candidates, pool[i])
		}
	}
	if len(candidates) == 0 {
		return res, nil
	}

	if len(req.PreferredGenres) > 0 {
		return e.scorePreference(res, space, req.PreferredGenres, candidates, req.MinSimilarity)
	}

	seedIDs := positiveSeeds(history.Ratings, e.config.PositiveThreshold())
	if len(seedIDs) > 0 {
		seeds := e.lookupMovies(ctx, seedIDs, res.known, logger)
		if len(seeds) > 0 {
			scores, err := algorithms.ScoreAgainstSeeds(space.Vectorize(seeds), space.Vectorize(candidates))
			if err != nil {
				return nil, err
			}
			minSim := e.config.Content.MinSimilarity
			if req.MinSimilarity != nil {
				minSim = *req.MinSimilarity
			}
			res.ranked = algorithms.RankContent(scores, minSim, 0)
			res.algorithms = []string{algorithmContent}
			return res, nil
		}
	}

	if !history.HasSignal() {
		return res, nil
	}

	historyMovies := e.lookupMovies(ctx, history.MovieIDs(), res.known, logger)
	genres := space.TopGenres(historyMovies, e.config.Content.DerivedGenres)
	if len(genres) == 0 {
		return res, nil
	}
	logger.Debug().Strs("genres", genres).Msg("scoring against derived genre preference")
	return e.scorePreference(res, space, genres, candidates, req.MinSimilarity)
}

// scorePreference scores candidates against a preference vector blended
// with popularity. A preference with no known genre has no signal.
func (e *Engine) scorePreference(res *modeResult, space *algorithms.GenreSpace, genres []string,
	candidates []models.MovieRecord, override *float64,
) (*modeResult, error) {
	res.source = SourcePreference

	pref := space.PreferenceVector(genres)
	if !hasNonZero(pref) {
		return res, nil
	}

	scores, err := algorithms.ScoreAgainstPreference(pref, space.Vectorize(candidates))
	if err != nil {
		return nil, err
	}
	w := e.config.Content.PreferencePopularityWeight
	for i := range candidates {
		id := candidates[i].ID
		scores[id] = algorithms.BlendPopularity(scores[id], candidates[i].Popularity, w)
	}

	minSim := e.config.Content.PreferenceMinSimilarity
	if override != nil {
		minSim = *override
	}
	res.ranked = algorithms.RankContent(scores, minSim, 0)
	res.algorithms = []string{algorithmPreference}
	return res, nil
}

// scoreItemBased runs item-based collaborative filtering.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) scoreItemBased(ctx context.Context, history *models.UserHistory, logger zerolog.Logger) (*modeResult, error) {
	res := newModeResult(SourceItemCF)
	ranked, err := e.itemCF.Score(ctx, e.loadMatrix(ctx, history, logger), history.UserID)
	if err != nil {
		return nil, err
	}
	res.ranked = ranked
	if len(ranked) > 0 {
		res.algorithms = []string{e.itemCF.Name()}
	}
	return res, nil
}

// scoreUserBased runs user-based collaborative filtering.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) scoreUserBased(ctx context.Context, history *models.UserHistory, logger zerolog.Logger) (*modeResult, error) {
	res := newModeResult(SourceUserCF)
	ranked, err := e.userCF.Score(ctx, e.loadMatrix(ctx, history, logger), history.UserID)
	if err != nil {
		return nil, err
	}
	res.ranked = ranked
	if len(ranked) > 0 {
		res.algorithms = []string{e.userCF.Name()}
	}
	return res, nil
}

// scoreHybrid runs content and collaborative scoring in parallel and
// combines them:
//
//	score = contentWeight*content + collaborativeWeight*collab
//
// Each source contributes its top limit*CandidateMultiplier entries after
// history dedup.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) scoreHybrid(ctx context.Context, req Request, history *models.UserHistory, logger zerolog.Logger) (*modeResult, error) {
	var (
		content    *modeResult
		collab     []algorithms.ScoredID
		collabAlgs []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := e.scoreContent(gctx, req, history, logger)
		content = r
		return err
	})
	g.Go(func() error {
		list, algs, err := e.collaborativeBlend(gctx, history, logger)
		collab, collabAlgs = list, algs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := history.Seen(e.config.ExcludeViewed)
	n := req.Limit * e.config.Hybrid.CandidateMultiplier
	contentList := algorithms.Truncate(filterSeen(content.ranked, seen), n)
	collabList := algorithms.Truncate(filterSeen(collab, seen), n)

	res := newModeResult(SourceHybrid)
	res.known = content.known
	res.ranked = algorithms.Combine(contentList, collabList,
		e.config.Hybrid.ContentWeight, e.config.Hybrid.CollaborativeWeight, 0)
	if len(contentList) > 0 {
		res.algorithms = append(res.algorithms, content.algorithms...)
	}
	if len(collabList) > 0 {
		res.algorithms = append(res.algorithms, collabAlgs...)
	}
	return res, nil
}

// collaborativeBlend returns the max-normalized collaborative list selected
// by Hybrid.CollaborativeSource. With both sources the per-movie mean of the
// available normalized scores is used.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) collaborativeBlend(ctx context.Context, history *models.UserHistory, logger zerolog.Logger) ([]algorithms.ScoredID, []string, error) {
	matrix := e.loadMatrix(ctx, history, logger)
	userID := history.UserID
	source := e.config.Hybrid.CollaborativeSource

	var itemList, userList []algorithms.ScoredID
	g, gctx := errgroup.WithContext(ctx)
	if source == CollaborativeItem || source == CollaborativeBoth {
		g.Go(func() error {
			list, err := e.itemCF.Score(gctx, matrix, userID)
			itemList = list
			return err
		})
	}
	if source == CollaborativeUser || source == CollaborativeBoth {
		g.Go(func() error {
			list, err := e.userCF.Score(gctx, matrix, userID)
			userList = list
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		lists [][]algorithms.ScoredID
		used  []string
	)
	if len(itemList) > 0 {
		lists = append(lists, algorithms.NormalizeByMax(itemList))
		used = append(used, e.itemCF.Name())
	}
	if len(userList) > 0 {
		lists = append(lists, algorithms.NormalizeByMax(userList))
		used = append(used, e.userCF.Name())
	}

	switch len(lists) {
	case 0:
		return nil, nil, nil
	case 1:
		return lists[0], used, nil
	default:
		return algorithms.MeanScores(lists...), used, nil
	}
}

// hydrate attaches catalog records to the ranked IDs, skipping seen movies
// and movies the catalog cannot resolve, until limit entries are collected.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) hydrate(ctx context.Context, res *modeResult, seen map[int]bool, limit int, logger zerolog.Logger) []ScoredMovie {
	ranked := filterSeen(res.ranked, seen)
	items := make([]ScoredMovie, 0, limit)

	for start := 0; start < len(ranked) && len(items) < limit; {
		end := start + (limit - len(items))
		if end > len(ranked) {
			end = len(ranked)
		}
		batch := ranked[start:end]

		ids := make([]int, len(batch))
		for i := range batch {
			ids[i] = batch[i].ID
		}
		movies := e.lookupMovies(ctx, ids, res.known, logger)
		byID := make(map[int]models.MovieRecord, len(movies))
		for i := range movies {
			byID[movies[i].ID] = movies[i]
		}

		for _, s := range batch {
			if m, ok := byID[s.ID]; ok {
				items = append(items, ScoredMovie{Movie: m, Score: s.Score, Source: res.source})
			}
		}
		start = end

		if ctx.Err() != nil {
			break
		}
	}
	return items
}

// lookupMovies resolves IDs to records, preserving order. Known records are
// reused; the rest are fetched concurrently and added to known. Unresolvable
// IDs are dropped.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) lookupMovies(ctx context.Context, ids []int, known map[int]models.MovieRecord, logger zerolog.Logger) []models.MovieRecord {
	fetched := make([]*models.MovieRecord, len(ids))

	var g errgroup.Group
	g.SetLimit(e.config.Workers)
	for i, id := range ids {
		if _, ok := known[id]; ok {
			continue
		}
		g.Go(func() error {
			callCtx, cancel := e.withTimeout(ctx)
			defer cancel()
			m, err := e.catalog.GetMovie(callCtx, id)
			if err != nil {
				if isNotFound(err) {
					logger.Debug().Int("movie_id", id).Msg("movie missing from catalog, skipping")
				} else {
					collaboratorFailed(ctx, logger, collaboratorCatalog, "get_movie", err)
				}
				return nil
			}
			fetched[i] = m
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // lookups absorb their own errors

	out := make([]models.MovieRecord, 0, len(ids))
	for i, id := range ids {
		if m, ok := known[id]; ok {
			out = append(out, m)
			continue
		}
		if fetched[i] != nil {
			known[id] = *fetched[i]
			out = append(out, *fetched[i])
		}
	}
	return out
}

// popular fetches up to limit popular movies. A failed read yields nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) popular(ctx context.Context, limit int, logger zerolog.Logger) []models.MovieRecord {
	callCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	movies, err := e.catalog.GetPopular(callCtx, limit)
	if err != nil {
		collaboratorFailed(ctx, logger, collaboratorCatalog, "get_popular", err)
		return nil
	}
	return movies
}

// genreUniverse fetches the genre universe. A failed read yields nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) genreUniverse(ctx context.Context, logger zerolog.Logger) []string {
	callCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	universe, err := e.catalog.GetGenreUniverse(callCtx)
	if err != nil {
		collaboratorFailed(ctx, logger, collaboratorCatalog, "get_genre_universe", err)
		return nil
	}
	return universe
}

// positiveSeeds returns the sorted IDs of movies rated at or above threshold.
func positiveSeeds(ratings map[int]int, threshold int) []int {
	seeds := make([]int, 0, len(ratings))
	for id, v := range ratings {
		if v >= threshold {
			seeds = append(seeds, id)
		}
	}
	sort.Ints(seeds)
	return seeds
}

// filterSeen drops entries whose ID is in seen, preserving order.
func filterSeen(list []algorithms.ScoredID, seen map[int]bool) []algorithms.ScoredID {
	if len(seen) == 0 {
		return list
	}
	out := make([]algorithms.ScoredID, 0, len(list))
	for _, s := range list {
		if !seen[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

func hasNonZero(v algorithms.GenreVector) bool {
	for _, x := range v {
		if x != 0 {
			return true
		}
	}
	return false
}
