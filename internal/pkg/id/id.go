package id

import (
	"github.com/google/uuid"
)

// New 生成新的UUID v4（string格式）
func New() string {
	return uuid.New().String()
}

// OrNew 候选值非空时原样返回，否则生成新的UUID
func OrNew(candidate string) string {
	if candidate != "" {
		return candidate
	}
	return New()
}

