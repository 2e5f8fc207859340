package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hitoshi/cakery/internal/model"
)

// PostgresCakeRepo はPostgreSQLを使用したケーキリポジトリ。
type PostgresCakeRepo struct {
	db *sql.DB
}

// NewPostgresCakeRepo はPostgresCakeRepoを生成する。
func NewPostgresCakeRepo(db *sql.DB) *PostgresCakeRepo {
	return &PostgresCakeRepo{db: db}
}

// List は全ケーキを作成日時昇順で返す。
func (r *PostgresCakeRepo) List(ctx context.Context) ([]*model.Cake, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, size, price, ingredients, created_at, updated_at
		 FROM cakes ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cakes: %w", err)
	}
	defer rows.Close()

	cakes := []*model.Cake{}
	for rows.Next() {
		cake := &model.Cake{}
		if err := rows.Scan(&cake.ID, &cake.Name, &cake.Size, &cake.Price,
			pq.Array(&cake.Ingredients), &cake.CreatedAt, &cake.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cake row: %w", err)
		}
		cakes = append(cakes, cake)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cake rows: %w", err)
	}

	return cakes, nil
}

// FindByID は指定IDのケーキを取得する。見つからない場合はnilを返す。
// 不正な形式のIDも「見つからない」として扱う。
func (r *PostgresCakeRepo) FindByID(ctx context.Context, id string) (*model.Cake, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}

	cake := &model.Cake{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, size, price, ingredients, created_at, updated_at
		 FROM cakes WHERE id = $1`,
		id,
	).Scan(&cake.ID, &cake.Name, &cake.Size, &cake.Price,
		pq.Array(&cake.Ingredients), &cake.CreatedAt, &cake.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cake by ID: %w", err)
	}

	return cake, nil
}

// Create はケーキを作成する。
func (r *PostgresCakeRepo) Create(ctx context.Context, cake *model.Cake) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cakes (id, name, size, price, ingredients, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		cake.ID, cake.Name, cake.Size, cake.Price, pq.Array(cake.Ingredients),
		cake.CreatedAt, cake.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cake: %w", err)
	}
	return nil
}

// Update はケーキを全フィールド上書きで更新する。
// 対象が存在しない場合はfalseを返す（upsertしない）。
func (r *PostgresCakeRepo) Update(ctx context.Context, cake *model.Cake) (bool, error) {
	if uuid.Validate(cake.ID) != nil {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE cakes
		 SET name = $2, size = $3, price = $4, ingredients = $5, updated_at = $6
		 WHERE id = $1`,
		cake.ID, cake.Name, cake.Size, cake.Price, pq.Array(cake.Ingredients), cake.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update cake: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByID は指定IDのケーキを削除する。対象が存在しない場合はfalseを返す。
func (r *PostgresCakeRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	if uuid.Validate(id) != nil {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cakes WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete cake: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ CakeRepository = (*PostgresCakeRepo)(nil)
