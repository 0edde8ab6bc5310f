package service

import (
	"math"
	"math/rand"

	"aure-self/internal/pkg/xerrors"
	"aure-self/internal/repository/entity"
)

// 战斗规则常量
const (
	// MaxRounds 回合上限（每回合一次出手），达到上限双方存活判平局
	MaxRounds = 50

	// CritMultiplier 暴击伤害倍率
	CritMultiplier = 1.5

	// MinDamage 伤害下限，防御再高也至少掉 1 点血
	MinDamage = 1
)

// 回合攻击方标识
const (
	AttackerPlayer = "player"
	AttackerEnemy  = "enemy"
)

// Simulator 回合制战斗模拟器
// 纯计算，不访问任何外部状态；随机性全部来自调用方注入的 rng
type Simulator struct{}

// NewSimulator 创建模拟器
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Simulate 模拟一场战斗：每回合一次出手，玩家先手，双方严格轮流
// 相同的输入与随机种子产出完全相同的结果
func (s *Simulator) Simulate(player, enemy CombatantStats, rng *rand.Rand) (*FightOutcome, error) {
	if player.MaxHP <= 0 {
		return nil, xerrors.New(xerrors.CodeCombatStatInvalid, "玩家最大生命值必须大于 0")
	}
	if enemy.MaxHP <= 0 {
		return nil, xerrors.New(xerrors.CodeCombatStatInvalid, "敌人最大生命值必须大于 0")
	}
	if rng == nil {
		return nil, xerrors.New(xerrors.CodeInvalidParams, "随机数生成器不能为空")
	}

	playerHP := player.MaxHP
	enemyHP := enemy.MaxHP
	rounds := make([]Round, 0, MaxRounds)

	for round := 1; round <= MaxRounds; round++ {
		// 奇数回合玩家出手，偶数回合敌人出手
		playerActs := round%2 == 1

		if playerActs {
			damage, crit := rollDamage(rng, player, enemy)
			enemyHP -= damage
			if enemyHP < 0 {
				enemyHP = 0
			}
			rounds = append(rounds, Round{
				Round:      round,
				Attacker:   AttackerPlayer,
				Damage:     damage,
				IsCritical: crit,
				PlayerHP:   playerHP,
				EnemyHP:    enemyHP,
			})
			if enemyHP == 0 {
				return outcome(entity.FightResultWin, rounds, playerHP, enemyHP), nil
			}
			continue
		}

		damage, crit := rollDamage(rng, enemy, player)
		playerHP -= damage
		if playerHP < 0 {
			playerHP = 0
		}
		rounds = append(rounds, Round{
			Round:      round,
			Attacker:   AttackerEnemy,
			Damage:     damage,
			IsCritical: crit,
			PlayerHP:   playerHP,
			EnemyHP:    enemyHP,
		})
		if playerHP == 0 {
			return outcome(entity.FightResultLoss, rounds, playerHP, enemyHP), nil
		}
	}

	// 回合耗尽双方存活，判平局
	return outcome(entity.FightResultDraw, rounds, playerHP, enemyHP), nil
}

// rollDamage 计算一次攻击的伤害与是否暴击
func rollDamage(rng *rand.Rand, attacker, defender CombatantStats) (int, bool) {
	damage := attacker.Attack - defender.Defense
	if damage < MinDamage {
		damage = MinDamage
	}

	crit := rng.Float64()*100 < attacker.CritChance
	if crit {
		damage = int(math.Round(float64(damage) * CritMultiplier))
	}
	return damage, crit
}

func outcome(result string, rounds []Round, playerHP, enemyHP int) *FightOutcome {
	roundCount := 0
	if len(rounds) > 0 {
		roundCount = rounds[len(rounds)-1].Round
	}
	return &FightOutcome{
		Result:     result,
		Rounds:     rounds,
		PlayerHP:   playerHP,
		EnemyHP:    enemyHP,
		RoundCount: roundCount,
	}
}
