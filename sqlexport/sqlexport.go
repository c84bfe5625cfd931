package sqlexport

import (
	"fmt"

	"genebank/btree"
	"genebank/kmer"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const batchSize = 500

// Kmer is one exported tree entry.
type Kmer struct {
	ID        uint   `gorm:"primaryKey"`
	Sequence  string `gorm:"size:31;uniqueIndex"`
	Key       uint64 `gorm:"index"`
	Frequency uint32
}

func (Kmer) TableName() string { return "kmers" }

type Source interface {
	K() int
	Traverse(fn btree.VisitFunc) error
}

//---------------------
// Client
//---------------------

type Client struct {
	Db *gorm.DB
}

// Open connects to (and creates if needed) the SQLite file at path.
func Open(path string) (*Client, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlexport: open %s: %w", path, err)
	}
	return &Client{Db: db}, nil
}

// Export replaces the kmers table with the entries of src and returns the row count.
func (c *Client) Export(src Source) (int, error) {
	if err := c.Db.Migrator().DropTable(&Kmer{}); err != nil {
		return 0, err
	}
	if err := c.Db.AutoMigrate(&Kmer{}); err != nil {
		return 0, err
	}

	rows := 0
	err := c.Db.Transaction(func(tx *gorm.DB) error {
		batch := make([]Kmer, 0, batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := tx.Create(&batch).Error; err != nil {
				return err
			}
			rows += len(batch)
			batch = batch[:0]
			return nil
		}
		err := src.Traverse(func(seq string, freq uint32) error {
			key, err := kmer.Encode(seq, src.K())
			if err != nil {
				return err
			}
			batch = append(batch, Kmer{Sequence: seq, Key: key, Frequency: freq})
			if len(batch) == batchSize {
				return flush()
			}
			return nil
		})
		if err != nil {
			return err
		}
		return flush()
	})
	if err != nil {
		return 0, fmt.Errorf("sqlexport: export: %w", err)
	}
	return rows, nil
}

// Frequency looks up one sequence; 0 when absent.
func (c *Client) Frequency(seq string) (uint32, error) {
	var row Kmer
	res := c.Db.Where("sequence = ?", seq).Limit(1).Find(&row)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}
	return row.Frequency, nil
}

func (c *Client) Count() (int64, error) {
	var n int64
	err := c.Db.Model(&Kmer{}).Count(&n).Error
	return n, err
}

func (c *Client) Close() error {
	sqlDB, err := c.Db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
