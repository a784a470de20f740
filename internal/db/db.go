package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options 描述数据库连接参数。
type Options struct {
	Driver string
	DSN    string
	Logger logger.Interface
}

// Open 建立数据库连接并执行自动迁移。
// Driver 为空时使用 sqlite，DSN 为空时回退到 data/site.db。
func Open(opts Options) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	dsn := strings.TrimSpace(opts.DSN)

	gormLogger := opts.Logger
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}
	gormConfig := &gorm.Config{Logger: gormLogger}

	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		if dsn == "" {
			dsn = "data/site.db"
		}
		if err := ensureParentDir(dsn); err != nil {
			return nil, eris.Wrap(err, "preparing sqlite directory")
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		if dsn == "" {
			return nil, eris.New("postgres dsn is required")
		}
		dialector = postgres.Open(dsn)
	default:
		return nil, eris.Errorf("unsupported database driver: %s", driver)
	}

	gdb, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, eris.Wrapf(err, "opening %s database", driver)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Migrate 为全部模型创建或更新表结构。
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&Page{},
		&SeoSettings{},
		&PageSeo{},
		&SectionContent{},
		&Division{},
		&BlogPost{},
		&JobPosting{},
		&Lead{},
	); err != nil {
		return eris.Wrap(err, "auto migrating schema")
	}

	// 早期数据使用 PUBLIC 作为页面类型。
	if err := gdb.Model(&Page{}).
		Where("page_type = ? OR page_type = '' OR page_type IS NULL", "PUBLIC").
		Update("page_type", string(PageTypeMainSite)).Error; err != nil {
		return eris.Wrap(err, "normalizing legacy page types")
	}

	return nil
}

// Close releases the underlying connection pool.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return eris.Wrap(err, "retrieving sql.DB for close")
	}
	return sqlDB.Close()
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") || strings.Contains(path, ":memory:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
