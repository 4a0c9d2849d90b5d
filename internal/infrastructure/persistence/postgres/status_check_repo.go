// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"storybook-api/internal/domain/entity"
	"storybook-api/internal/domain/repository"
)

// StatusCheckRepository 状态上报仓储实现
type StatusCheckRepository struct {
	client *Client
	tx     repository.Transactor
}

// NewStatusCheckRepository 创建状态上报仓储
func NewStatusCheckRepository(client *Client) *StatusCheckRepository {
	return &StatusCheckRepository{
		client: client,
		tx:     NewTxManager(client),
	}
}

// Create 插入状态上报记录
func (r *StatusCheckRepository) Create(ctx context.Context, check *entity.StatusCheck) error {
	ctx, span := tracer.Start(ctx, "postgres.StatusCheckRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		INSERT INTO status_checks (id, client_name, timestamp)
		VALUES ($1, $2, $3)
	`

	if _, err := q.ExecContext(ctx, query, check.ID, check.ClientName, check.Timestamp); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create status check: %w", err)
	}

	return nil
}

// List 获取状态上报列表（按时间倒序）
func (r *StatusCheckRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.StatusCheck], error) {
	ctx, span := tracer.Start(ctx, "postgres.StatusCheckRepository.List")
	defer span.End()

	var total int64
	checks := make([]*entity.StatusCheck, 0, pagination.Limit())

	// COUNT 与分页读取放进同一事务，total 与当前页取自同一快照
	err := r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		q := getQuerier(ctx, r.client.db)

		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM status_checks`).Scan(&total); err != nil {
			return fmt.Errorf("failed to count status checks: %w", err)
		}

		query := `
			SELECT id, client_name, timestamp
			FROM status_checks
			ORDER BY timestamp DESC
			LIMIT $1 OFFSET $2
		`

		rows, err := q.QueryContext(ctx, query, pagination.Limit(), pagination.Offset())
		if err != nil {
			return fmt.Errorf("failed to list status checks: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var check entity.StatusCheck
			if err := rows.Scan(&check.ID, &check.ClientName, &check.Timestamp); err != nil {
				return fmt.Errorf("failed to scan status check: %w", err)
			}
			checks = append(checks, &check)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate status checks: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return repository.NewPagedResult(checks, total, pagination), nil
}
