// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"storybook-api/internal/domain/entity"
)

// StatusCheckRepository 状态上报仓储接口
type StatusCheckRepository interface {
	// Create 插入状态上报记录
	Create(ctx context.Context, check *entity.StatusCheck) error

	// List 获取状态上报列表（按时间倒序）
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.StatusCheck], error)
}
