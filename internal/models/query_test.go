package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultPositionQuery() PositionQuery {
	return PositionQuery{
		Experience: -1,
		Limit:      10,
	}
}

func TestPositionQuery_IsDefault(t *testing.T) {
	q := defaultPositionQuery()
	assert.True(t, q.IsDefault(), "所有过滤字段均为哨兵值时应判定为默认查询")

	// 分页与排序不参与判定。
	q.Start = 20
	q.SortOrder = SortByViews
	assert.True(t, q.IsDefault())
}

func TestPositionQuery_IsDefault_EachFilterActivates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PositionQuery)
	}{
		{"标题", func(q *PositionQuery) { q.Title = "Engineer" }},
		{"标签", func(q *PositionQuery) { q.Tags = []string{"外企"} }},
		{"地点", func(q *PositionQuery) { q.Base = "Beijing" }},
		{"学历", func(q *PositionQuery) { q.Degree = DegreeBachelor }},
		{"薪资", func(q *PositionQuery) { q.Salary = 20000 }},
		{"经验", func(q *PositionQuery) { q.Experience = 24 }},
		{"经验为零", func(q *PositionQuery) { q.Experience = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := defaultPositionQuery()
			tt.mutate(&q)
			assert.False(t, q.IsDefault(), "设置 %s 过滤后不应再判定为默认查询", tt.name)
		})
	}
}
