package service

import (
	"math"
	"regexp"
	"strings"

	"github.com/noah-isme/pathfinder-api/internal/dto"
)

func normalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

func clampPageSize(size int) int {
	if size <= 0 {
		return 20
	}
	if size > 100 {
		return 100
	}
	return size
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := int(math.Ceil(float64(total) / float64(pageSize)))
	if pages == 0 {
		return 1
	}
	return pages
}

func paginationMeta(page, pageSize int, total int64) dto.PaginationMeta {
	return dto.PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: calculateTotalPages(total, pageSize),
	}
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(value string) string {
	slug := slugInvalidChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "-")
	return strings.Trim(slug, "-")
}
