// Package service 聚合战斗模块的业务服务实现：属性聚合、敌人供给、
// 回合模拟、奖励结算与战报查询。
package service

// CombatantStats 参战单位的最终战斗属性
type CombatantStats struct {
	Name       string  `json:"name"`
	Level      int     `json:"level"`
	MaxHP      int     `json:"max_hp"`
	Attack     int     `json:"attack"`
	Defense    int     `json:"defense"`
	Speed      int     `json:"speed"`
	CritChance float64 `json:"crit_chance"` // 0-100
}

// Round 单回合记录
type Round struct {
	Round      int    `json:"round"`
	Attacker   string `json:"attacker"` // "player" / "enemy"
	Damage     int    `json:"damage"`
	IsCritical bool   `json:"is_critical"`
	PlayerHP   int    `json:"player_hp"`
	EnemyHP    int    `json:"enemy_hp"`
}

// FightOutcome 战斗模拟结果
type FightOutcome struct {
	Result     string  `json:"result"` // win / loss / draw
	Rounds     []Round `json:"rounds"`
	PlayerHP   int     `json:"player_hp"`
	EnemyHP    int     `json:"enemy_hp"`
	RoundCount int     `json:"round_count"`
}

// EnemyStats 敌人的战斗属性与奖励配置
type EnemyStats struct {
	ID         string  `json:"id,omitempty"` // 图鉴敌人有 ID，临时生成的没有
	Name       string  `json:"name"`
	Archetype  string  `json:"archetype"`
	Tier       string  `json:"tier"`
	Region     string  `json:"region,omitempty"`
	Level      int     `json:"level"`
	MaxHP      int     `json:"max_hp"`
	Attack     int     `json:"attack"`
	Defense    int     `json:"defense"`
	Speed      int     `json:"speed"`
	CritChance float64 `json:"crit_chance"`
	XPReward   int64   `json:"xp_reward"`
	GoldReward int64   `json:"gold_reward"`
}

// Stats 返回纯战斗属性视图
func (e *EnemyStats) Stats() CombatantStats {
	return CombatantStats{
		Name:       e.Name,
		Level:      e.Level,
		MaxHP:      e.MaxHP,
		Attack:     e.Attack,
		Defense:    e.Defense,
		Speed:      e.Speed,
		CritChance: e.CritChance,
	}
}

// EventEffects 当前生效活动叠加后的奖励系数与属性加成
type EventEffects struct {
	XPMultiplier   float64  `json:"xp_multiplier"`
	GoldMultiplier float64  `json:"gold_multiplier"`
	DropBoost      float64  `json:"drop_boost"`
	AttackBonus    float64  `json:"attack_bonus"`
	DefenseBonus   float64  `json:"defense_bonus"`
	ActiveEvents   []string `json:"active_events,omitempty"`
}

// NeutralEffects 没有活动时的基准系数
func NeutralEffects() EventEffects {
	return EventEffects{XPMultiplier: 1, GoldMultiplier: 1, DropBoost: 1}
}

// DroppedItem 结算掉落的物品
type DroppedItem struct {
	ItemCode string `json:"item_code"`
	ItemName string `json:"item_name"`
	Rarity   string `json:"rarity"`
}

// RewardGrant 结算发放结果
type RewardGrant struct {
	FightID            string        `json:"fight_id"`
	XPGained           int64         `json:"xp_gained"`
	GoldGained         int64         `json:"gold_gained"`
	Items              []DroppedItem `json:"items"`
	CompanionXP        int64         `json:"companion_xp"`
	CompanionID        string        `json:"companion_id,omitempty"`
	CompanionLevel     int           `json:"companion_level,omitempty"`
	CompanionLeveledUp bool          `json:"companion_leveled_up,omitempty"`
}
