package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"taxpadi-referral-be/internal/entity"
)

// ReferrerOwnedBy filters earnings by the referrer that owns them.
type ReferrerOwnedBy struct {
	ReferrerID uuid.UUID
}

func (s ReferrerOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("referrer_id = ?", s.ReferrerID)
}

// EarningStatusIs filters earnings by status.
type EarningStatusIs struct {
	Status entity.EarningStatus
}

func (s EarningStatusIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

// AfterCursor selects rows strictly after the compound (created_at, id)
// cursor. Timestamps alone are not a total order; the id tiebreaker keeps
// the FIFO walk stable when two earnings share a createdAt.
type AfterCursor struct {
	Cursor *entity.EarningCursor
}

func (s AfterCursor) Apply(db *gorm.DB) *gorm.DB {
	if s.Cursor == nil {
		return db
	}
	return db.Where(
		"(created_at > ?) OR (created_at = ? AND id > ?)",
		s.Cursor.CreatedAt, s.Cursor.CreatedAt, s.Cursor.Id,
	)
}

// FIFOOrder orders by the compound cursor, oldest first.
type FIFOOrder struct{}

func (s FIFOOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}
