package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"aure-self/internal/repository/entity"
)

// BusinessValidator 业务规则验证器
type BusinessValidator struct {
	validator *validator.Validate
}

// NewBusinessValidator 创建新的业务验证器
func NewBusinessValidator() *BusinessValidator {
	v := validator.New()

	// 注册自定义验证规则
	v.RegisterValidation("enemy_tier", validateEnemyTier)
	v.RegisterValidation("enemy_archetype", validateEnemyArchetype)
	v.RegisterValidation("enemy_region", validateEnemyRegion)
	v.RegisterValidation("item_rarity", validateItemRarity)

	return &BusinessValidator{
		validator: v,
	}
}

// Validate 验证结构体
func (bv *BusinessValidator) Validate(i interface{}) error {
	return bv.validator.Struct(i)
}

// validateEnemyTier 验证敌人品阶，空值放行交由默认值处理
func validateEnemyTier(fl validator.FieldLevel) bool {
	tier := fl.Field().String()
	if tier == "" {
		return true
	}
	return entity.IsValidTier(tier)
}

// validateEnemyArchetype 验证敌人原型，空值表示随机
func validateEnemyArchetype(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", entity.ArchetypeBalanced, entity.ArchetypeGlassCannon, entity.ArchetypeTank:
		return true
	}
	return false
}

// validateEnemyRegion 验证区域代码，空值表示无区域加成
func validateEnemyRegion(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "verdant_plains", "ashen_wastes", "frost_peaks", "abyssal_rift":
		return true
	}
	return false
}

// validateItemRarity 验证装备品质
func validateItemRarity(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case entity.RarityCommon, entity.RarityUncommon, entity.RarityRare,
		entity.RarityEpic, entity.RarityLegendary, entity.RarityMythic:
		return true
	}
	return false
}

// GetValidationErrorMessage 获取验证错误的友好消息
func GetValidationErrorMessage(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			field := fieldError.Field()
			tag := fieldError.Tag()

			switch tag {
			case "required":
				return fmt.Sprintf("字段 %s 是必填项", field)
			case "enemy_tier":
				return "敌人品阶不正确：必须是 common、elite 或 boss"
			case "enemy_archetype":
				return "敌人原型不正确：必须是 balanced、glass_cannon 或 tank"
			case "enemy_region":
				return "区域代码不正确"
			case "item_rarity":
				return "装备品质不正确"
			case "min":
				return fmt.Sprintf("字段 %s 的值太小", field)
			case "max":
				return fmt.Sprintf("字段 %s 的值太大", field)
			case "uuid":
				return "UUID格式不正确"
			default:
				return fmt.Sprintf("字段 %s 验证失败：%s", field, tag)
			}
		}
	}

	return "验证失败：" + err.Error()
}
