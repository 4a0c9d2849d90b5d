package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storybook-api/internal/domain/repository"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		want     repository.Pagination
	}{
		{"正常参数", 2, 30, repository.Pagination{Page: 2, PageSize: 30}},
		{"页码小于 1 归一为 1", 0, 30, repository.Pagination{Page: 1, PageSize: 30}},
		{"负页码归一为 1", -5, 30, repository.Pagination{Page: 1, PageSize: 30}},
		{"页大小小于 1 取默认值", 1, 0, repository.Pagination{Page: 1, PageSize: 20}},
		{"页大小超上限封顶 100", 1, 500, repository.Pagination{Page: 1, PageSize: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repository.NewPagination(tt.page, tt.pageSize))
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	p := repository.NewPagination(3, 20)
	assert.Equal(t, 40, p.Offset())
	assert.Equal(t, 20, p.Limit())
}

func TestNewPagedResult(t *testing.T) {
	p := repository.NewPagination(1, 20)

	t.Run("整除时页数精确", func(t *testing.T) {
		result := repository.NewPagedResult([]int{1, 2}, 40, p)
		assert.Equal(t, 2, result.TotalPages)
	})

	t.Run("有余数时页数进位", func(t *testing.T) {
		result := repository.NewPagedResult([]int{1, 2}, 41, p)
		assert.Equal(t, 3, result.TotalPages)
	})

	t.Run("空结果集", func(t *testing.T) {
		result := repository.NewPagedResult([]int{}, 0, p)
		assert.Equal(t, 0, result.TotalPages)
		assert.Empty(t, result.Items)
	})
}
