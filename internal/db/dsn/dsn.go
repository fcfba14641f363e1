// Package dsn builds gorm dialectors from the database configuration.
package dsn

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
)

// Create builds the Data Source Name for the configured engine.
func Create(dbCfg *config.Config) string {
	switch dbCfg.DB.GormEngine {
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			dbCfg.DB.Host,
			dbCfg.DB.Port,
			dbCfg.DB.User,
			dbCfg.DB.Password,
			dbCfg.DB.Name,
		)
		if dbCfg.DB.Extras != "" {
			out += " " + dbCfg.DB.Extras
		}

		return out
	case config.EngineSQLite:
		if dbCfg.DB.Extras != "" {
			return dbCfg.DB.Name + "?" + dbCfg.DB.Extras
		}

		return dbCfg.DB.Name
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.DB.User,
			dbCfg.DB.Password,
			dbCfg.DB.Host,
			dbCfg.DB.Port,
			dbCfg.DB.Name,
			dbCfg.DB.Extras,
		)
	}
}

// Dialector returns the gorm driver matching DB.GormEngine.
func Dialector(dbCfg *config.Config) gorm.Dialector {
	switch dbCfg.DB.GormEngine {
	case config.EnginePostgres:
		return postgres.Open(Create(dbCfg))
	case config.EngineSQLite:
		return sqlite.Open(Create(dbCfg))
	default:
		return mysql.Open(Create(dbCfg))
	}
}
