package wordpack

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// packRecord is the word_packs row; words are newline-joined to keep the
// schema a single portable table.
type packRecord struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"uniqueIndex;not null"`
	Words string `gorm:"not null"`
}

func (packRecord) TableName() string { return "word_packs" }

// GormStore backs packs with Postgres.
type GormStore struct {
	db *gorm.DB
}

func OpenGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening word pack database: %w", err)
	}
	if err := db.AutoMigrate(&packRecord{}); err != nil {
		return nil, fmt.Errorf("migrating word_packs: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) LoadPacks() ([]Pack, error) {
	var recs []packRecord
	if err := s.db.Order("name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("loading word packs: %w", err)
	}

	packs := make([]Pack, 0, len(recs))
	for _, rec := range recs {
		packs = append(packs, Pack{Name: rec.Name, Words: splitWords(rec.Words)})
	}
	return packs, nil
}

// SavePack upserts one pack by name. Used to seed an empty database from a
// pack directory on first boot.
func (s *GormStore) SavePack(p Pack) error {
	rec := packRecord{Name: p.Name, Words: joinWords(p.Words)}
	err := s.db.Where(packRecord{Name: p.Name}).
		Assign(packRecord{Words: rec.Words}).
		FirstOrCreate(&rec).Error
	if err != nil {
		return fmt.Errorf("saving word pack %s: %w", p.Name, err)
	}
	return nil
}

// Empty reports whether the table holds no packs yet.
func (s *GormStore) Empty() (bool, error) {
	var count int64
	if err := s.db.Model(&packRecord{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("counting word packs: %w", err)
	}
	return count == 0, nil
}
