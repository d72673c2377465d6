package obsolescence

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/sigat/asset-registry/pkg/actor"
	"github.com/sigat/asset-registry/pkg/models"
)

// RulesStore manages the singleton obsolescence rules row.
type RulesStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRulesStore creates a new RulesStore.
func NewRulesStore(db *gorm.DB, logger *slog.Logger) *RulesStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RulesStore{db: db, logger: logger}
}

// Get returns the rules row, creating it with defaults on first access.
func (s *RulesStore) Get() (*models.ObsolescenceRules, error) {
	var rules models.ObsolescenceRules
	err := s.db.First(&rules, models.ObsolescenceRulesID).Error
	if err == nil {
		return &rules, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("load obsolescence rules: %w", err)
	}

	rules = *models.DefaultObsolescenceRules()
	if createErr := s.db.Create(&rules).Error; createErr != nil {
		// Another request may have created the row first.
		if s.db.First(&rules, models.ObsolescenceRulesID).Error == nil {
			return &rules, nil
		}
		return nil, fmt.Errorf("create obsolescence rules: %w", createErr)
	}
	return &rules, nil
}

// RulesUpdate carries the editable fields of the rules row.
type RulesUpdate struct {
	WindowsMinVersion  string  `json:"windowsMinVersion"`
	RAMMinGB           float64 `json:"ramMinGb"`
	DiskMinFreePercent float64 `json:"diskMinFreePercent"`
	Enabled            bool    `json:"enabled"`
}

// Validate rejects out-of-range thresholds.
func (u RulesUpdate) Validate() error {
	if u.RAMMinGB < 0 {
		return fmt.Errorf("ramMinGb must not be negative")
	}
	if u.DiskMinFreePercent < 0 || u.DiskMinFreePercent > 100 {
		return fmt.Errorf("diskMinFreePercent must be between 0 and 100")
	}
	return nil
}

// Update overwrites the rules row and stamps the acting user.
func (s *RulesStore) Update(ctx context.Context, u RulesUpdate) (*models.ObsolescenceRules, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	rules, err := s.Get()
	if err != nil {
		return nil, err
	}

	rules.WindowsMinVersion = u.WindowsMinVersion
	rules.RAMMinGB = u.RAMMinGB
	rules.DiskMinFreePercent = u.DiskMinFreePercent
	rules.Enabled = u.Enabled
	rules.UpdatedBy = actor.UsernameFromContext(ctx)

	if err := s.db.Save(rules).Error; err != nil {
		return nil, fmt.Errorf("save obsolescence rules: %w", err)
	}
	s.logger.Info("obsolescence rules updated",
		"updated_by", rules.UpdatedBy,
		"windows_min_version", rules.WindowsMinVersion,
		"ram_min_gb", rules.RAMMinGB,
		"disk_min_free_percent", rules.DiskMinFreePercent,
		"enabled", rules.Enabled)
	return rules, nil
}
