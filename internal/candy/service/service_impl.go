package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sodacandy/candybot/internal/candy/domain"
	"github.com/sodacandy/candybot/internal/clock"
	"github.com/sodacandy/candybot/pkg/db/pagination"
)

const (
	drawCooldown = 8 * time.Hour
	giveCooldown = 1 * time.Hour

	maxDrawAmount = 5
)

type Service interface {
	// Draw rolls the gacha for a member. At most one draw per cooldown
	// window; returns ErrCooldown otherwise.
	Draw(ctx context.Context, communityID, memberID snowflake.ID) (*domain.CandyLog, error)

	// Give transfers one candy from giver to receiver.
	Give(ctx context.Context, communityID, giverID, receiverID snowflake.ID, reason string) (*domain.CandyLog, error)

	Balance(ctx context.Context, communityID, memberID snowflake.ID) (int64, error)

	// History pages through a community's grant log, newest first.
	History(ctx context.Context, communityID snowflake.ID, page pagination.Pagination) ([]domain.CandyLog, pagination.PageInfo, error)
}

type candyService struct {
	db    *gorm.DB
	cache *redis.Client
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

type ServiceParams struct {
	fx.In

	DB    *gorm.DB
	Cache *redis.Client
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

func NewService(p ServiceParams) Service {
	return &candyService{
		db:    p.DB,
		cache: p.Cache,
		log:   p.Log.Named("candy"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *candyService) Draw(ctx context.Context, communityID, memberID snowflake.ID) (*domain.CandyLog, error) {
	key := fmt.Sprintf("candy:draw:%d:%d", communityID, memberID)
	ok, err := s.cache.SetNX(ctx, key, s.clock.Now().Unix(), drawCooldown).Result()
	if err != nil {
		return nil, fmt.Errorf("candy: cooldown check: %w", err)
	}
	if !ok {
		return nil, domain.ErrCooldown
	}

	log := &domain.CandyLog{
		CommunityID: communityID,
		MemberID:    memberID,
		Amount:      1 + rand.Intn(maxDrawAmount),
		Reason:      "draw",
	}
	if err := s.repo.Insert(ctx, s.db, log); err != nil {
		// Roll the cooldown back so a failed insert does not eat the
		// member's draw.
		if delErr := s.cache.Del(ctx, key).Err(); delErr != nil {
			s.log.Warn("failed to release draw cooldown", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	s.log.Debug("candy drawn",
		zap.Int64("community_id", int64(communityID)),
		zap.Int64("member_id", int64(memberID)),
		zap.Int("amount", log.Amount),
	)
	return log, nil
}

func (s *candyService) Give(ctx context.Context, communityID, giverID, receiverID snowflake.ID, reason string) (*domain.CandyLog, error) {
	if giverID == receiverID {
		return nil, domain.ErrSelfGive
	}

	key := fmt.Sprintf("candy:give:%d:%d", communityID, giverID)
	ok, err := s.cache.SetNX(ctx, key, s.clock.Now().Unix(), giveCooldown).Result()
	if err != nil {
		return nil, fmt.Errorf("candy: cooldown check: %w", err)
	}
	if !ok {
		return nil, domain.ErrCooldown
	}

	log := &domain.CandyLog{
		CommunityID: communityID,
		MemberID:    receiverID,
		GiverID:     giverID,
		Amount:      1,
		Reason:      reason,
	}
	if err := s.repo.Insert(ctx, s.db, log); err != nil {
		if delErr := s.cache.Del(ctx, key).Err(); delErr != nil {
			s.log.Warn("failed to release give cooldown", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	return log, nil
}

func (s *candyService) Balance(ctx context.Context, communityID, memberID snowflake.ID) (int64, error) {
	return s.repo.SumByMember(ctx, s.db, communityID, memberID)
}

func (s *candyService) History(ctx context.Context, communityID snowflake.ID, page pagination.Pagination) ([]domain.CandyLog, pagination.PageInfo, error) {
	return s.repo.ListRecent(ctx, s.db, communityID, page)
}
