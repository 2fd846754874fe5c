package database

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/signclips/pkg/database/dbconn"
	"github.com/tauraamui/signclips/pkg/database/models"
	"github.com/tauraamui/signclips/pkg/log"
	"github.com/tauraamui/xerror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const dictionaryDBFile = "signclips.db"

var (
	ErrCreateDBFile    = xerror.New("unable to create database file")
	ErrDBAlreadyExists = xerror.New("database file already exists")
)

var uc = os.UserCacheDir
var fs = afero.NewOsFs()

// Path is where the dictionary entries are stored, SIGNCLIPS_DB
// wins over the user cache directory.
func Path() (string, error) {
	if p := os.Getenv("SIGNCLIPS_DB"); len(p) > 0 {
		return p, nil
	}

	cacheDir, err := uc()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s database file location: %w", dictionaryDBFile, err)
	}
	return filepath.Join(cacheDir, "tauraamui", "signclips", dictionaryDBFile), nil
}

// Setup creates an empty dictionary database with its tables migrated.
func Setup() error {
	path, err := Path()
	if err != nil {
		return err
	}

	log.Info("Creating dictionary database at %s...", path)
	if err := createFile(path); err != nil {
		return err
	}

	if _, err := Open(path); err != nil {
		return err
	}
	return nil
}

func Destroy() error {
	path, err := Path()
	if err != nil {
		return xerror.Errorf("unable to delete database file: %w", err)
	}

	if err := fs.Remove(path); err != nil {
		return xerror.Errorf("unable to delete database file %s: %w", path, err)
	}
	return nil
}

func Connect() (dbconn.GormWrapper, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Open connects to the database at path and brings its
// tables up to date with the entry models.
func Open(path string) (dbconn.GormWrapper, error) {
	log.Debug("Opening dictionary database: %s", path)
	conn, err := openDBConnection(path)
	if err != nil {
		return nil, xerror.Errorf("unable to open db connection: %w", err)
	}

	if err := models.AutoMigrate(conn); err != nil {
		return nil, xerror.Errorf("unable to run automigrations: %w", err)
	}
	return conn, nil
}

// gormLog sends gorm's own output to the debug log.
type gormLog struct{}

func (gormLog) Printf(format string, args ...interface{}) {
	log.Debug(format, args...)
}

var openDBConnection = func(path string) (dbconn.GormWrapper, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.New(gormLog{}, logger.Config{LogLevel: logger.Warn}),
	})
	if err != nil {
		return nil, err
	}
	return dbconn.Wrap(db), nil
}

func createFile(path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm); err != nil {
		return xerror.Errorf("%v: %w", ErrCreateDBFile, err)
	}

	file, err := fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return xerror.Errorf("%w: %s", ErrDBAlreadyExists, path)
		}
		return xerror.Errorf("%v: %w", ErrCreateDBFile, err)
	}
	return file.Close()
}
