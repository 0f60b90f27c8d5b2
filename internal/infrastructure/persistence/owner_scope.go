package persistence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OwnerScope restricts a query to the rows of one owner
func OwnerScope(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

// Paginate applies the filter's offset and clamped limit
func Paginate(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(filter.Offset()).Limit(filter.Limit())
	}
}

// searchScope matches the pattern case-insensitively against any of columns
func searchScope(search string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(search) + "%"
		conds := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, c := range columns {
			conds[i] = "LOWER(" + c + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// translateNotFound maps gorm's not found error to the domain one
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// lockedUpdate writes every column of model if the stored row still carries
// version expected. The caller sets model's version to expected+1 beforehand.
func lockedUpdate(db *gorm.DB, model any, ownerID, id uuid.UUID, expected int) error {
	result := db.Model(model).
		Where("id = ? AND owner_id = ? AND version = ?", id, ownerID, expected).
		Select("*").
		Omit("id", "owner_id", "created_at", clause.Associations).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// deleteOwned deletes one owned row, returning ErrNotFound when nothing matched
func deleteOwned(db *gorm.DB, model any, ownerID, id uuid.UUID) error {
	result := db.Scopes(OwnerScope(ownerID)).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// nextNumber returns "<prefix>-YYYYMM-#####", one past the highest number
// already issued this month for the owner.
func nextNumber(db *gorm.DB, table, column, prefix string, ownerID uuid.UUID, now time.Time) (string, error) {
	stem := fmt.Sprintf("%s-%s-", prefix, now.Format("200601"))
	var last []string
	if err := db.Table(table).
		Scopes(OwnerScope(ownerID)).
		Where(column+" LIKE ?", stem+"%").
		Order(column+" DESC").
		Limit(1).
		Pluck(column, &last).Error; err != nil {
		return "", err
	}

	seq := 1
	if len(last) > 0 {
		n, err := strconv.Atoi(strings.TrimPrefix(last[0], stem))
		if err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%05d", stem, seq), nil
}

// findPage counts the rows of M matching where and loads the requested page.
// db must be a fresh session such as the result of WithContext.
func findPage[M any](db *gorm.DB, where func(*gorm.DB) *gorm.DB, order string, filter shared.Filter,
	load ...func(*gorm.DB) *gorm.DB) ([]M, int64, error) {
	var total int64
	if err := db.Model(new(M)).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []M
	if err := db.Model(new(M)).
		Scopes(where).
		Scopes(load...).
		Order(order).
		Scopes(Paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
