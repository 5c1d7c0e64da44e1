package db

import (
	"fmt"
	"os"
	"path/filepath"

	"minimarket/config"
	"minimarket/logger"
	"minimarket/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// Connect abre conexão com o banco configurado (sqlite3 por padrão) e,
// se AutoMigrate estiver ligado, cria as tabelas de models.
func Connect(conf config.Configuration, log logger.Logger) (*gorm.DB, error) {
	dialect, dsn, err := dataSource(conf)
	if err != nil {
		return nil, err
	}

	log.Infow("connecting database", "dialect", dialect, "host", conf.DbHost, "name", conf.DbName)
	conn, err := gorm.Open(dialect, dsn)
	if err != nil {
		log.Errorw("database connection failed", append([]interface{}{"error", err}, ErrorFields(err)...)...)
		return nil, err
	}

	conn.LogMode(conf.LogSQL)
	if dialect == "sqlite3" {
		// sqlite serializes writers; one connection keeps transactions and
		// follow-up statements on the same handle.
		conn.DB().SetMaxOpenConns(1)
	}

	if conf.AutoMigrate {
		if err := Migrate(conn); err != nil {
			conn.Close()
			return nil, err
		}
		log.Infow("schema migrated", "tables", len(models.All()))
	}
	return conn, nil
}

// Migrate creates or extends the tables declared in models.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(models.All()...).Error
}

func dataSource(conf config.Configuration) (string, string, error) {
	switch conf.Database {
	case "postgres":
		dsn := "host=" + conf.DbHost + " port=" + conf.DbPort
		dsn += " user=" + conf.DbUser + " dbname=" + conf.DbName
		dsn += " password=" + conf.DbPass + " sslmode=" + conf.SSLMode
		return "postgres", dsn, nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true",
			conf.DbUser, conf.DbPass, conf.DbHost, conf.DbPort, conf.DbName)
		return "mysql", dsn, nil
	case "sqlite3":
		path := conf.DbPath
		if path == "" {
			path = "db/database.db"
		}
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return "", "", err
			}
		}
		return "sqlite3", path, nil
	default:
		return "", "", fmt.Errorf("unsupported database %q", conf.Database)
	}
}
