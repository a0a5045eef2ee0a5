package repos

import (
	"github.com/yungbote/methodgraph-backend/internal/data/repos/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ItemRepo = manufacturing.ItemRepo
type MakeMethodRepo = manufacturing.MakeMethodRepo
type MethodMaterialRepo = manufacturing.MethodMaterialRepo
type MethodOperationRepo = manufacturing.MethodOperationRepo
type TreeRowsResult = manufacturing.TreeRowsResult

type ConfigurationParameterGroupRepo = manufacturing.ConfigurationParameterGroupRepo
type ConfigurationParameterRepo = manufacturing.ConfigurationParameterRepo
type ConfigurationRuleRepo = manufacturing.ConfigurationRuleRepo

type QuoteRepo = manufacturing.QuoteRepo
type QuoteMakeMethodRepo = manufacturing.QuoteMakeMethodRepo

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	return manufacturing.NewItemRepo(db, baseLog)
}
func NewMakeMethodRepo(db *gorm.DB, baseLog *logger.Logger) MakeMethodRepo {
	return manufacturing.NewMakeMethodRepo(db, baseLog)
}
func NewMethodMaterialRepo(db *gorm.DB, baseLog *logger.Logger) MethodMaterialRepo {
	return manufacturing.NewMethodMaterialRepo(db, baseLog)
}
func NewMethodOperationRepo(db *gorm.DB, baseLog *logger.Logger) MethodOperationRepo {
	return manufacturing.NewMethodOperationRepo(db, baseLog)
}

func NewConfigurationParameterGroupRepo(db *gorm.DB, baseLog *logger.Logger) ConfigurationParameterGroupRepo {
	return manufacturing.NewConfigurationParameterGroupRepo(db, baseLog)
}
func NewConfigurationParameterRepo(db *gorm.DB, baseLog *logger.Logger) ConfigurationParameterRepo {
	return manufacturing.NewConfigurationParameterRepo(db, baseLog)
}
func NewConfigurationRuleRepo(db *gorm.DB, baseLog *logger.Logger) ConfigurationRuleRepo {
	return manufacturing.NewConfigurationRuleRepo(db, baseLog)
}

func NewQuoteRepo(db *gorm.DB, baseLog *logger.Logger) QuoteRepo {
	return manufacturing.NewQuoteRepo(db, baseLog)
}
func NewQuoteMakeMethodRepo(db *gorm.DB, baseLog *logger.Logger) QuoteMakeMethodRepo {
	return manufacturing.NewQuoteMakeMethodRepo(db, baseLog)
}

// Set bundles every table repo.
type Set struct {
	Items            ItemRepo
	MakeMethods      MakeMethodRepo
	Materials        MethodMaterialRepo
	Operations       MethodOperationRepo
	ParameterGroups  ConfigurationParameterGroupRepo
	Parameters       ConfigurationParameterRepo
	Rules            ConfigurationRuleRepo
	Quotes           QuoteRepo
	QuoteMakeMethods QuoteMakeMethodRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Items:            NewItemRepo(db, baseLog),
		MakeMethods:      NewMakeMethodRepo(db, baseLog),
		Materials:        NewMethodMaterialRepo(db, baseLog),
		Operations:       NewMethodOperationRepo(db, baseLog),
		ParameterGroups:  NewConfigurationParameterGroupRepo(db, baseLog),
		Parameters:       NewConfigurationParameterRepo(db, baseLog),
		Rules:            NewConfigurationRuleRepo(db, baseLog),
		Quotes:           NewQuoteRepo(db, baseLog),
		QuoteMakeMethods: NewQuoteMakeMethodRepo(db, baseLog),
	}
}
