package store

import (
	"fmt"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"log"
	"os"
	"time"
)

type UpdateDao interface {
	SaveRunRecord(r *RunRecord) error
	// RemoveRunRecordsBefore permanently deletes records created before t.
	RemoveRunRecordsBefore(t time.Time) error
}

type QueryDao interface {
	// QueryRunRecordsByIdentifier returns the records of identifier, newest first.
	QueryRunRecordsByIdentifier(identifier string) ([]*RunRecord, error)
	QueryRecentRunRecords(limit int) ([]*RunRecord, error)
}

type Dao interface {
	DB() *gorm.DB
	UpdateDao
	QueryDao
}

type daoImpl struct {
	db     *gorm.DB
	logger *log.Logger
}

var _ Dao = &daoImpl{}

// ResolveDSN returns dsn, or when it is empty a DSN for the host given by the
// MYSQL_SERVICE_HOST and MYSQL_SERVICE_PORT environment variables.
func ResolveDSN(dsn string) (string, error) {
	if dsn != "" {
		return dsn, nil
	}
	host := os.Getenv("MYSQL_SERVICE_HOST")
	if host == "" {
		return "", errors.New("no mysql dsn configured and MYSQL_SERVICE_HOST is not set")
	}
	port := os.Getenv("MYSQL_SERVICE_PORT")
	if port == "" {
		port = "3306"
	}
	user := os.Getenv("MYSQL_USER")
	if user == "" {
		user = "root"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/tensorprep?charset=utf8mb4&parseTime=True&loc=Local",
		user, os.Getenv("MYSQL_PASSWORD"), host, port), nil
}

func NewDao(dsn string) (Dao, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "", 0), logger.Config{
			LogLevel: logger.Silent,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}

	err = db.AutoMigrate(&RunRecordDO{})
	if err != nil {
		return nil, errors.Wrap(err, "creating tables")
	}

	return &daoImpl{
		db:     db,
		logger: log.New(os.Stdout, "Dao: ", log.LstdFlags|log.Lshortfile|log.Lmsgprefix),
	}, nil
}

func (d *daoImpl) SaveRunRecord(r *RunRecord) error {
	if r.Identifier == "" {
		return fmt.Errorf("run record has no identifier")
	}
	do := fromRecord(r)
	err := d.db.Create(do).Error
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("saving run record of %s", r.Identifier))
	}
	r.ID = do.ID
	r.CreatedAt = do.CreatedAt
	return nil
}

func (d *daoImpl) RemoveRunRecordsBefore(t time.Time) error {
	result := d.db.Model(&RunRecordDO{}).Unscoped().Where("created_at < ?", t).Delete(&RunRecordDO{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "removing run records")
	}
	d.logger.Printf("removed %d run records created before %v", result.RowsAffected, t)
	return nil
}

func (d *daoImpl) QueryRunRecordsByIdentifier(identifier string) ([]*RunRecord, error) {
	doArray := []*RunRecordDO{}
	err := d.db.Order("created_at desc, id desc").Find(&doArray, &RunRecordDO{
		Identifier: identifier,
	}).Error
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("querying run records of %s", identifier))
	}
	return toRecords(doArray)
}

func (d *daoImpl) QueryRecentRunRecords(limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	doArray := []*RunRecordDO{}
	err := d.db.Order("created_at desc, id desc").Limit(limit).Find(&doArray).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying recent run records")
	}
	return toRecords(doArray)
}

func toRecords(doArray []*RunRecordDO) ([]*RunRecord, error) {
	result := make([]*RunRecord, len(doArray))
	for i, do := range doArray {
		r, err := do.toRecord()
		if err != nil {
			return nil, errors.Wrapf(err, "run record %d", do.ID)
		}
		result[i] = r
	}
	return result, nil
}

func (d *daoImpl) DB() *gorm.DB {
	return d.db
}
