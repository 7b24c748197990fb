package models

import "time"

// HotTag 记录一个标签在搜索请求中被提及的累计次数。
// 首次提及时创建，此后每次提及计数加一并刷新 LastUpdate；
// 排行查询只统计滑动窗口（默认最近 30 天）内活跃过的标签。
type HotTag struct {
	TagName    string    `gorm:"column:tag_name;primaryKey" json:"tagName"`
	Count      int       `gorm:"column:count" json:"count"`
	LastUpdate time.Time `gorm:"column:last_update" json:"lastUpdate"`
}

// TableName 指定 gorm 映射的表名。
func (HotTag) TableName() string {
	return "hot_tags"
}
