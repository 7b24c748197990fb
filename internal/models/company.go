package models

import (
	"encoding/json"
	"fmt"
)

// Company 表示存储在 Elasticsearch 公司索引中的文档结构。
// Description 默认不出现在搜索投影中（带宽控制），只在公司详情接口返回。
type Company struct {
	Name        string   `json:"name"`                  // 公司名称，可分词查询。
	Tags        []string `json:"tags"`                  // 公司标签（keyword）。
	IconURL     string   `json:"icon_url"`              // 公司图标 URL，不索引。
	Location    string   `json:"location"`              // 公司所在地，不索引。
	Description string   `json:"description,omitempty"` // 公司描述正文，不索引。
}

// CompanyRecord 是权威 MySQL 库中 company 表的一行。
// Id 即公司在搜索索引中的文档 ID——它本身已是稳定的自然键，无需再做内容哈希。
type CompanyRecord struct {
	ID          string  `gorm:"column:id;primaryKey"`
	Name        string  `gorm:"column:name"`
	IconURL     string  `gorm:"column:iconurl"`
	Tags        *string `gorm:"column:tags"`
	Location    string  `gorm:"column:location"`
	Description string  `gorm:"column:description"`
	Uploaded    bool    `gorm:"column:uploaded"`
}

// TableName 指定 gorm 映射的表名。
func (CompanyRecord) TableName() string {
	return "company"
}

// ToDocument 将关系库记录转换为搜索索引的文档形式。
func (r *CompanyRecord) ToDocument() (Company, error) {
	var tags []string
	if r.Tags != nil {
		if err := json.Unmarshal([]byte(*r.Tags), &tags); err != nil {
			return Company{}, fmt.Errorf("解析公司记录 (id: %s) 的 tags 列失败: %w", r.ID, err)
		}
	}

	return Company{
		Name:        r.Name,
		Tags:        tags,
		IconURL:     r.IconURL,
		Location:    r.Location,
		Description: r.Description,
	}, nil
}
