package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pickboard/pickboard-backend/internal/domain"
	"github.com/pickboard/pickboard-backend/internal/repository"
	"github.com/pickboard/pickboard-backend/pkg/cache"
	pkglogger "github.com/pickboard/pickboard-backend/pkg/logger"
)

// Placeholders for empty pick fields
const (
	MissingSport = "N/A"
	MissingOdds  = "-"
)

// LeaderboardService ranks posts by recent likes
type LeaderboardService interface {
	TopPicks(ctx context.Context) (*domain.TopPicksResult, error)
}

type leaderboardService struct {
	postRepo   repository.PostRepository
	likeRepo   repository.LikeRepository
	cache      cache.Service
	windowDays int
	size       int
	now        func() time.Time
}

// NewLeaderboardService creates a new LeaderboardService counting likes from
// the last windowDays days and keeping the first size posts
func NewLeaderboardService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	cacheService cache.Service,
	windowDays, size int,
) LeaderboardService {
	return &leaderboardService{
		postRepo:   postRepo,
		likeRepo:   likeRepo,
		cache:      cacheService,
		windowDays: windowDays,
		size:       size,
		now:        time.Now,
	}
}

func (s *leaderboardService) cacheVariant() string {
	return fmt.Sprintf("%dd-top%d", s.windowDays, s.size)
}

// TopPicks returns the posts with the most likes inside the window
func (s *leaderboardService) TopPicks(ctx context.Context) (*domain.TopPicksResult, error) {
	if s.cache != nil && s.cache.IsAvailable() {
		var cached domain.TopPicksResult
		if err := s.cache.GetTopPicks(ctx, s.cacheVariant(), &cached); err == nil {
			return &cached, nil
		}
	}

	likes, err := s.likeRepo.ListPostLikes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	posts, err := s.postRepo.List(ctx, domain.PostListOptions{OldestFirst: true})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	since := s.now().Add(-time.Duration(s.windowDays) * 24 * time.Hour)
	result := &domain.TopPicksResult{
		Picks:      RankTopPicks(posts, likes, since, s.size),
		TotalPosts: len(posts),
		WindowDays: s.windowDays,
	}

	if s.cache != nil && s.cache.IsAvailable() {
		if err := s.cache.SetTopPicks(ctx, s.cacheVariant(), result); err != nil {
			pkglogger.Warn("cache top picks: %v", err)
		}
	}
	return result, nil
}

// RankTopPicks counts likes created at or after since for every post, sorts by
// that count descending keeping the input order for ties, and returns the first size.
// Posts without likes take part with a count of 0.
func RankTopPicks(posts []*domain.Post, likes []domain.LikeRecord, since time.Time, size int) []*domain.TopPick {
	counts := make(map[uint64]int64, len(posts))
	for _, like := range likes {
		if !like.CreatedAt.Before(since) {
			counts[like.PostID]++
		}
	}

	picks := make([]*domain.TopPick, len(posts))
	for i, p := range posts {
		pick := &domain.TopPick{
			PostID: p.ID,
			Title:  p.Title,
			Sport:  p.Sport,
			Odds:   p.Odds,
			Likes:  counts[p.ID],
		}
		if pick.Sport == "" {
			pick.Sport = MissingSport
		}
		if pick.Odds == "" {
			pick.Odds = MissingOdds
		}
		picks[i] = pick
	}

	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Likes > picks[j].Likes
	})

	if size >= 0 && len(picks) > size {
		picks = picks[:size]
	}
	for i, pick := range picks {
		pick.Rank = i + 1
	}
	return picks
}
