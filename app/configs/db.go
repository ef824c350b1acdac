package configs

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxRetries = 10
	retryDelay = 5 * time.Second
)

// OpenConnection opens the SQL database behind the gorm storage drivers.
func OpenConnection(env ENV) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch env.StorageDriver {
	case DriverMySQL:
		return openMySQL(env, cfg)
	case DriverSQLite, "":
		db, err := gorm.Open(sqlite.Open(env.SQLitePath), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", env.SQLitePath, err)
		}
		log.Info().Str("path", env.SQLitePath).Msg("OpenConnection: sqlite ready")
		return db, nil
	default:
		return nil, fmt.Errorf("storage driver %q has no SQL database", env.StorageDriver)
	}
}

func openMySQL(env ENV, cfg *gorm.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.DBUser,
		env.DBPassword,
		env.DBHost,
		env.DBPort,
		env.DBName,
	)

	for i := 0; i < maxRetries; i++ {
		log.Info().Int("attempt", i+1).Int("max", maxRetries).Str("host", env.DBHost).Msg("OpenConnection: connecting to mysql")
		db, err := gorm.Open(mysql.Open(dsn), cfg)
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					log.Info().Msg("OpenConnection: mysql connection successful")
					return db, nil
				}
			}
			log.Warn().Err(pingErr).Dur("retry_in", retryDelay).Msg("OpenConnection: failed to ping database")
		} else {
			log.Warn().Err(err).Dur("retry_in", retryDelay).Msg("OpenConnection: failed to open gorm connection")
		}

		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to mysql at %s:%s after %d retries", env.DBHost, env.DBPort, maxRetries)
}
