package service

import (
	"context"
	"time"

	"aure-self/internal/pkg/xerrors"
	"aure-self/internal/repository/interfaces"
)

// EventService 全局活动服务
// 多个活动同时生效时，经验/金币系数相乘，掉落加成取最大值，
// 属性百分比加成求和后与装备百分比一并生效
type EventService struct {
	eventRepo interfaces.GameEventRepository
}

// NewEventService 创建活动服务
func NewEventService(eventRepo interfaces.GameEventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// ActiveEffects 计算指定时刻生效的活动叠加系数
func (s *EventService) ActiveEffects(ctx context.Context, at time.Time) (EventEffects, error) {
	effects := NeutralEffects()

	events, err := s.eventRepo.ListActive(ctx, at)
	if err != nil {
		return effects, xerrors.Wrap(err, xerrors.CodeDatabaseError, "查询生效活动失败")
	}

	for _, event := range events {
		if event.XPMultiplier > 0 {
			effects.XPMultiplier *= event.XPMultiplier
		}
		if event.GoldMultiplier > 0 {
			effects.GoldMultiplier *= event.GoldMultiplier
		}
		if event.DropBoost > effects.DropBoost {
			effects.DropBoost = event.DropBoost
		}
		effects.AttackBonus += event.AttackBonus
		effects.DefenseBonus += event.DefenseBonus
		effects.ActiveEvents = append(effects.ActiveEvents, event.Name)
	}
	return effects, nil
}
