package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storybook-api/internal/domain/entity"
	"storybook-api/internal/domain/repository"
	"storybook-api/internal/interfaces/http/dto"
	"storybook-api/internal/interfaces/http/handler"
)

// fakeStatusRepo 内存版状态上报仓储，测试专用
type fakeStatusRepo struct {
	mu     sync.Mutex
	checks []*entity.StatusCheck
}

func (r *fakeStatusRepo) Create(_ context.Context, check *entity.StatusCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks = append(r.checks, check)
	return nil
}

func (r *fakeStatusRepo) List(_ context.Context, p repository.Pagination) (*repository.PagedResult[*entity.StatusCheck], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]*entity.StatusCheck, 0, len(r.checks))
	for i := len(r.checks) - 1; i >= 0; i-- {
		items = append(items, r.checks[i])
	}
	start := p.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + p.Limit()
	if end > len(items) {
		end = len(items)
	}
	return repository.NewPagedResult(items[start:end], int64(len(r.checks)), p), nil
}

func newStatusRouter(repo repository.StatusCheckRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewStatusHandler(repo)

	r := gin.New()
	api := r.Group("/api")
	{
		api.POST("/status", h.CreateStatusCheck)
		api.GET("/status", h.ListStatusChecks)
	}
	return r
}

func TestCreateStatusCheck(t *testing.T) {
	repo := &fakeStatusRepo{}
	r := newStatusRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/api/status", dto.CreateStatusCheckRequest{
		ClientName: "monitor-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response[dto.StatusCheckResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "monitor-1", resp.Data.ClientName)
	assert.False(t, resp.Data.Timestamp.IsZero())

	t.Run("缺少 client_name 返回 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/status", map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListStatusChecks(t *testing.T) {
	repo := &fakeStatusRepo{}
	r := newStatusRouter(repo)

	for _, name := range []string{"monitor-1", "monitor-2"} {
		w := doJSON(t, r, http.MethodPost, "/api/status", dto.CreateStatusCheckRequest{ClientName: name})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.StatusCheckListResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.StatusChecks, 2)
	// 按上报时间倒序
	assert.Equal(t, "monitor-2", resp.Data.StatusChecks[0].ClientName)
	assert.Equal(t, "monitor-1", resp.Data.StatusChecks[1].ClientName)
}
