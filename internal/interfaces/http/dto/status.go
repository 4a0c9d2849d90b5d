// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"storybook-api/internal/domain/entity"
)

// CreateStatusCheckRequest 状态上报请求
type CreateStatusCheckRequest struct {
	ClientName string `json:"client_name" binding:"required"`
}

// StatusCheckResponse 状态上报响应
type StatusCheckResponse struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// StatusCheckListResponse 状态上报列表响应
type StatusCheckListResponse struct {
	StatusChecks []*StatusCheckResponse `json:"status_checks"`
}

// ToStatusCheckResponse 转换为状态上报响应
func ToStatusCheckResponse(check *entity.StatusCheck) *StatusCheckResponse {
	return &StatusCheckResponse{
		ID:         check.ID,
		ClientName: check.ClientName,
		Timestamp:  check.Timestamp,
	}
}

// ToStatusCheckListResponse 转换为状态上报列表响应
func ToStatusCheckListResponse(checks []*entity.StatusCheck) *StatusCheckListResponse {
	out := make([]*StatusCheckResponse, 0, len(checks))
	for _, check := range checks {
		out = append(out, ToStatusCheckResponse(check))
	}
	return &StatusCheckListResponse{StatusChecks: out}
}
