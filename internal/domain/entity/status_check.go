// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/google/uuid"
)

// StatusCheck 客户端状态上报记录
type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewStatusCheck 创建状态上报记录
func NewStatusCheck(clientName string) *StatusCheck {
	return &StatusCheck{
		ID:         uuid.New().String(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}
}
