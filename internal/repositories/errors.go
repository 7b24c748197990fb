package repositories

import (
	"errors"
	"fmt"
)

// 领域内的“未找到”哨兵错误。调用方用 errors.Is 区分用户可见的 404 与后端故障。
var (
	ErrPositionNotFound = errors.New("职位不存在")
	ErrCompanyNotFound  = errors.New("公司不存在")
)

// BackendError 表示文档库侧的失败：传输层错误之外，
// 响应标记为失败（IsError）同样会被归入此类——文档库可能“静默失败”，
// 因此仅靠传输错误判断成败是不够的。
type BackendError struct {
	Op     string // 失败的操作描述，例如 "索引文档"、"搜索文档"
	Status string // 文档库返回的状态，例如 "503 Service Unavailable"
	Detail string // 文档库返回的诊断信息（响应体），可能为空
}

func (e *BackendError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("Elasticsearch 操作 '%s' 失败，状态码: %s，响应: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("Elasticsearch 操作 '%s' 失败，状态码: %s", e.Op, e.Status)
}
