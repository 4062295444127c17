package errors

import "errors"

// ErrRecordNotFound 目录记录不存在（仓储层统一转换 gorm.ErrRecordNotFound）
var ErrRecordNotFound = errors.New("记录不存在")

// ErrDuplicateRecord 目录记录唯一键冲突
var ErrDuplicateRecord = errors.New("记录已存在")
