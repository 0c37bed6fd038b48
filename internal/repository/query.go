package repository

import (
	"errors"

	"gorm.io/gorm"
)

// maxPageSize 单页最大条数，与接口层分页上限一致
const maxPageSize = 100

// pageWindow 计算 LIMIT/OFFSET，pageSize <= 0 表示不分页
func pageWindow(page, pageSize int) (limit, offset int) {
	if pageSize <= 0 {
		return 0, 0
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}

// applyPagination 应用分页参数
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	limit, offset := pageWindow(page, pageSize)
	if query == nil || limit == 0 {
		return query
	}
	return query.Limit(limit).Offset(offset)
}

// firstOrNil 查询首条记录，不存在时返回 (nil, nil)
func firstOrNil[T any](query *gorm.DB, conds ...interface{}) (*T, error) {
	var record T
	if err := query.First(&record, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
