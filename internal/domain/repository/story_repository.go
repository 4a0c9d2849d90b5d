// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"storybook-api/internal/domain/entity"
)

// StoryRepository 故事仓储接口
// 故事记录只插入一次，不支持更新或删除。
type StoryRepository interface {
	// Create 插入故事记录
	Create(ctx context.Context, story *entity.Story) error

	// GetByID 根据 ID 获取故事；未命中时返回 (nil, nil)
	GetByID(ctx context.Context, id string) (*entity.Story, error)

	// List 获取故事列表（按创建时间倒序）
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Story], error)
}
