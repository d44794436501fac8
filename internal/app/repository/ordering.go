package repository

import (
	"database/sql"

	"gorm.io/gorm"
)

// orderGroup is one set of siblings sharing a dense 0-based order column.
type orderGroup struct {
	table  string
	column string
	where  func(*gorm.DB) *gorm.DB
}

func (g orderGroup) query(tx *gorm.DB) *gorm.DB {
	q := tx.Table(g.table)
	if g.where != nil {
		q = g.where(q)
	}
	return q
}

// next returns the index that appends to the end of the group.
func (g orderGroup) next(tx *gorm.DB) (int, error) {
	var max sql.NullInt64
	if err := g.query(tx).Select("MAX(" + g.column + ")").Row().Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// ids lists the group's members in display order.
func (g orderGroup) ids(tx *gorm.DB) ([]uint, error) {
	var ids []uint
	err := g.query(tx).Order(g.column + ", id").Pluck("id", &ids).Error
	return ids, err
}

// assign gives ids the indices 0..n-1 in slice order.
func (g orderGroup) assign(tx *gorm.DB, ids []uint) error {
	for i, id := range ids {
		if err := tx.Table(g.table).Where("id = ?", id).UpdateColumn(g.column, i).Error; err != nil {
			return err
		}
	}
	return nil
}

// compact closes gaps left by deletes and moves.
func (g orderGroup) compact(tx *gorm.DB) error {
	ids, err := g.ids(tx)
	if err != nil {
		return err
	}
	return g.assign(tx, ids)
}

// swap exchanges the order values of two rows.
func (g orderGroup) swap(tx *gorm.DB, a, b uint) error {
	type row struct {
		ID       uint
		Position int
	}
	var rows []row
	if err := tx.Table(g.table).
		Select("id, "+g.column+" AS position").
		Where("id IN ?", []uint{a, b}).
		Scan(&rows).Error; err != nil {
		return err
	}
	if len(rows) != 2 {
		return gorm.ErrRecordNotFound
	}
	if err := tx.Table(g.table).Where("id = ?", rows[0].ID).UpdateColumn(g.column, rows[1].Position).Error; err != nil {
		return err
	}
	return tx.Table(g.table).Where("id = ?", rows[1].ID).UpdateColumn(g.column, rows[0].Position).Error
}
