package store

import (
	"fmt"
	"time"

	"github.com/drizzlenote/chatbot/internal/config"
	"gorm.io/gorm"
)

// NewForConfig returns the store matching the configured variant.
func NewForConfig(db *gorm.DB, cfg *config.Config, opts ...Option) (WordStore, error) {
	switch cfg.Variant {
	case config.VariantTranslated:
		return NewTranslatedStore(db, cfg.AllowDuplicates, opts...), nil
	case config.VariantBilingual:
		days := int(cfg.ReviewStaleness / (24 * time.Hour))
		return NewBilingualStore(db, days, opts...), nil
	default:
		return nil, fmt.Errorf("unknown variant %q", cfg.Variant)
	}
}
