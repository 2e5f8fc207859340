package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hitoshi/cakery/internal/model"
)

// PostgresConsumerRepo はPostgreSQLを使用した顧客リポジトリ。
type PostgresConsumerRepo struct {
	db *sql.DB
}

// NewPostgresConsumerRepo はPostgresConsumerRepoを生成する。
func NewPostgresConsumerRepo(db *sql.DB) *PostgresConsumerRepo {
	return &PostgresConsumerRepo{db: db}
}

// List は全顧客を作成日時昇順で返す。
func (r *PostgresConsumerRepo) List(ctx context.Context) ([]*model.Consumer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, phone, address, preferred_flavor,
		        allergies, order_history, favorite_cake, created_at, updated_at
		 FROM consumers ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list consumers: %w", err)
	}
	defer rows.Close()

	consumers := []*model.Consumer{}
	for rows.Next() {
		c := &model.Consumer{}
		if err := scanConsumer(rows.Scan, c); err != nil {
			return nil, fmt.Errorf("failed to scan consumer row: %w", err)
		}
		consumers = append(consumers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate consumer rows: %w", err)
	}

	return consumers, nil
}

// FindByID は指定IDの顧客を取得する。見つからない場合はnilを返す。
// 不正な形式のIDも「見つからない」として扱う。
func (r *PostgresConsumerRepo) FindByID(ctx context.Context, id string) (*model.Consumer, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}

	c := &model.Consumer{}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, phone, address, preferred_flavor,
		        allergies, order_history, favorite_cake, created_at, updated_at
		 FROM consumers WHERE id = $1`,
		id,
	)
	err := scanConsumer(row.Scan, c)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find consumer by ID: %w", err)
	}

	return c, nil
}

// Create は顧客を作成する。
func (r *PostgresConsumerRepo) Create(ctx context.Context, c *model.Consumer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO consumers (id, first_name, last_name, email, phone, address,
		                        preferred_flavor, allergies, order_history, favorite_cake,
		                        created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
		c.PreferredFlavor, c.Allergies, pq.Array(c.OrderHistory), c.FavoriteCake,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert consumer: %w", err)
	}
	return nil
}

// Update は顧客を全フィールド上書きで更新する。
// 対象が存在しない場合はfalseを返す（upsertしない）。
func (r *PostgresConsumerRepo) Update(ctx context.Context, c *model.Consumer) (bool, error) {
	if uuid.Validate(c.ID) != nil {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE consumers
		 SET first_name = $2, last_name = $3, email = $4, phone = $5, address = $6,
		     preferred_flavor = $7, allergies = $8, order_history = $9,
		     favorite_cake = $10, updated_at = $11
		 WHERE id = $1`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
		c.PreferredFlavor, c.Allergies, pq.Array(c.OrderHistory), c.FavoriteCake,
		c.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update consumer: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByID は指定IDの顧客を削除する。対象が存在しない場合はfalseを返す。
// 削除された顧客を参照するケーキ側の後始末は行わない（弱参照）。
func (r *PostgresConsumerRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	if uuid.Validate(id) != nil {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM consumers WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete consumer: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// scanConsumer は顧客1行分のScanを共通化する。
func scanConsumer(scan func(dest ...any) error, c *model.Consumer) error {
	return scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address,
		&c.PreferredFlavor, &c.Allergies, pq.Array(&c.OrderHistory), &c.FavoriteCake,
		&c.CreatedAt, &c.UpdatedAt)
}

// compile-time interface check
var _ ConsumerRepository = (*PostgresConsumerRepo)(nil)
