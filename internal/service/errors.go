package service

import "errors"

// 业务错误，handler层据此映射响应
var (
	// ErrNotFound 实体不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrInvalidState 当前状态不允许该操作（非法状态流转）
	ErrInvalidState = errors.New("当前状态不允许该操作")
	// ErrInsufficientStock 可用卡密不足
	ErrInsufficientStock = errors.New("库存不足")
)
