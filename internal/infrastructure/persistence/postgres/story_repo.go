// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"storybook-api/internal/domain/entity"
	"storybook-api/internal/domain/repository"
)

// StoryRepository 故事仓储实现
type StoryRepository struct {
	client *Client
	tx     repository.Transactor
}

// NewStoryRepository 创建故事仓储
func NewStoryRepository(client *Client) *StoryRepository {
	return &StoryRepository{
		client: client,
		tx:     NewTxManager(client),
	}
}

// Create 插入故事记录
func (r *StoryRepository) Create(ctx context.Context, story *entity.Story) error {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		INSERT INTO stories (id, kid_name, kid_age, kid_photo, theme, story_type, length,
			special_ingredients, created_at, story_content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var kidPhoto sql.NullString
	if story.KidPhoto != "" {
		kidPhoto = sql.NullString{String: story.KidPhoto, Valid: true}
	}

	_, err := q.ExecContext(ctx, query,
		story.ID, story.KidName, story.KidAge, kidPhoto, story.Theme,
		story.StoryType, story.Length, pq.Array(story.SpecialIngredients),
		story.CreatedAt, story.StoryContent,
	)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create story: %w", err)
	}

	return nil
}

// GetByID 根据 ID 获取故事；未命中时返回 (nil, nil)
func (r *StoryRepository) GetByID(ctx context.Context, id string) (*entity.Story, error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT id, kid_name, kid_age, kid_photo, theme, story_type, length,
			special_ingredients, created_at, story_content
		FROM stories
		WHERE id = $1
	`

	story, err := scanStory(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get story: %w", err)
	}

	return story, nil
}

// List 获取故事列表（按创建时间倒序）
func (r *StoryRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Story], error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.List")
	defer span.End()

	var total int64
	stories := make([]*entity.Story, 0, pagination.Limit())

	// COUNT 与分页读取放进同一事务，total 与当前页取自同一快照
	err := r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		q := getQuerier(ctx, r.client.db)

		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM stories`).Scan(&total); err != nil {
			return fmt.Errorf("failed to count stories: %w", err)
		}

		query := `
			SELECT id, kid_name, kid_age, kid_photo, theme, story_type, length,
				special_ingredients, created_at, story_content
			FROM stories
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`

		rows, err := q.QueryContext(ctx, query, pagination.Limit(), pagination.Offset())
		if err != nil {
			return fmt.Errorf("failed to list stories: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			story, err := scanStory(rows)
			if err != nil {
				return fmt.Errorf("failed to scan story: %w", err)
			}
			stories = append(stories, story)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate stories: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return repository.NewPagedResult(stories, total, pagination), nil
}

// rowScanner sql.Row 与 sql.Rows 的公共扫描接口
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanStory 扫描单行故事记录
func scanStory(row rowScanner) (*entity.Story, error) {
	var story entity.Story
	var kidPhoto sql.NullString
	var ingredients pq.StringArray

	err := row.Scan(
		&story.ID, &story.KidName, &story.KidAge, &kidPhoto, &story.Theme,
		&story.StoryType, &story.Length, &ingredients,
		&story.CreatedAt, &story.StoryContent,
	)
	if err != nil {
		return nil, err
	}

	if kidPhoto.Valid {
		story.KidPhoto = kidPhoto.String
	}
	story.SpecialIngredients = []string(ingredients)
	if story.SpecialIngredients == nil {
		story.SpecialIngredients = []string{}
	}

	return &story, nil
}
