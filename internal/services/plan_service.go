package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"monktrader/internal/caching"
	"monktrader/internal/models"
	"monktrader/internal/repositories"
)

const planCacheTTL = 10 * time.Minute

// PlanService serves the plan catalog through a read-through cache. Plans
// change rarely; a ten minute staleness window is acceptable for the pricing
// page.
type PlanService interface {
	ListPlans(ctx context.Context, deviceType string) ([]*models.Plan, error)
}

type planService struct {
	plans repositories.PlanRepository
	cache caching.CacheService
}

func NewPlanService(plans repositories.PlanRepository, cache caching.CacheService) PlanService {
	return &planService{plans: plans, cache: cache}
}

func (s *planService) ListPlans(ctx context.Context, deviceType string) ([]*models.Plan, error) {
	if cached, err := s.cache.GetPlans(ctx, deviceType); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: plan cache read failed: %v", err)
	}

	plans, err := s.plans.ListActiveByDevice(ctx, deviceType)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	if err := s.cache.SetPlans(ctx, deviceType, plans, planCacheTTL); err != nil {
		log.Printf("WARN: plan cache write failed: %v", err)
	}
	return plans, nil
}
