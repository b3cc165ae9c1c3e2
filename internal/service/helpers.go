package service

import (
	"math"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
)

func maxInt(value, floor int) int {
	if value < floor {
		return floor
	}
	return value
}

func clampPageSize(pageSize int) int {
	if pageSize <= 0 {
		return 20
	}
	if pageSize > 100 {
		return 100
	}
	return pageSize
}

func paginationMeta(page, pageSize int, total int64) dto.PaginationMeta {
	meta := dto.PaginationMeta{Page: page, PageSize: pageSize, TotalItems: total}
	if pageSize > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		meta.TotalPages = 1
	}
	return meta
}
