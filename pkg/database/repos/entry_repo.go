package repos

import (
	"github.com/tauraamui/signclips/pkg/database/dbconn"
	"github.com/tauraamui/signclips/pkg/database/models"
	"github.com/tauraamui/xerror"
)

type EntryRepository struct {
	DB dbconn.GormWrapper
}

func (r *EntryRepository) Create(entry *models.Entry) error {
	return r.DB.Create(entry).Error()
}

func (r *EntryRepository) FindByLabel(label string) (models.Entry, error) {
	entry := models.Entry{}
	if err := r.DB.Where("label = ?", label).First(&entry).Error(); err != nil {
		return entry, xerror.Errorf("unable to find entry of label %s: %w", label, err)
	}

	return entry, nil
}

func (r *EntryRepository) All() ([]models.Entry, error) {
	entries := []models.Entry{}
	if err := r.DB.Order("text").Find(&entries).Error(); err != nil {
		return nil, xerror.Errorf("unable to list entries: %w", err)
	}

	return entries, nil
}
