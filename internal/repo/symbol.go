package repo

import (
	"context"
	"errors"

	"github.com/KNICEX/pump-radar/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SymbolRepo interface {
	Upsert(ctx context.Context, symbol entity.Symbol) error
	FindByBaseAndQuote(ctx context.Context, base, quote string) (entity.Symbol, error)
	// FindByMark 返回指定标记的交易对, 如 ignore/favorite
	FindByMark(ctx context.Context, mark string) ([]entity.Symbol, error)
	UpdateMark(ctx context.Context, base, quote, mark string) error
}

var ErrSymbolNotFound = errors.New("symbol not found")

type symbolRepo struct {
	db *gorm.DB
}

func NewSymbolRepo(db *gorm.DB) SymbolRepo {
	return &symbolRepo{
		db: db,
	}
}

func (repo *symbolRepo) Upsert(ctx context.Context, symbol entity.Symbol) error {
	return repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "base"}, {Name: "quote"}},
		DoUpdates: clause.AssignmentColumns([]string{"about", "mark", "updated_at"}),
	}).Create(&symbol).Error
}

func (repo *symbolRepo) FindByBaseAndQuote(ctx context.Context, base, quote string) (entity.Symbol, error) {
	var symbol entity.Symbol
	err := repo.db.WithContext(ctx).Where("base = ? AND quote = ?", base, quote).First(&symbol).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Symbol{}, ErrSymbolNotFound
		}
		return entity.Symbol{}, err
	}
	return symbol, nil
}

func (repo *symbolRepo) FindByMark(ctx context.Context, mark string) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	err := repo.db.WithContext(ctx).Where("mark = ?", mark).Find(&symbols).Error
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

func (repo *symbolRepo) UpdateMark(ctx context.Context, base, quote, mark string) error {
	return repo.db.WithContext(ctx).Model(&entity.Symbol{}).
		Where("base = ? AND quote = ?", base, quote).
		Update("mark", mark).Error
}
