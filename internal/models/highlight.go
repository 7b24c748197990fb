package models

import "strings"

// PositionHighlight 保存职位搜索命中的高亮片段：
// 标题取第一个片段，标签则建立 原始标签文本 -> 高亮片段 的映射。
type PositionHighlight struct {
	TitleHighlight string            `json:"titleHighlight,omitempty"`
	TagsHighlight  map[string]string `json:"tagsHighlight,omitempty"`
}

// CompanyHighlight 与 PositionHighlight 结构一致，对应公司的 name/tags 字段。
type CompanyHighlight struct {
	TitleHighlight string            `json:"titleHighlight,omitempty"`
	TagsHighlight  map[string]string `json:"tagsHighlight,omitempty"`
}

// NewPositionHighlight 从搜索引擎返回的 字段名->高亮片段列表 映射中提取职位高亮。
// highlight 为空时返回 nil。
func NewPositionHighlight(highlight map[string][]string) *PositionHighlight {
	if len(highlight) == 0 {
		return nil
	}

	h := &PositionHighlight{}
	if fragments, ok := highlight["title"]; ok && len(fragments) > 0 {
		h.TitleHighlight = fragments[0]
	}
	if fragments, ok := highlight["description.tags"]; ok && len(fragments) > 0 {
		h.TagsHighlight = buildTagHighlightMap(fragments)
	}
	return h
}

// NewCompanyHighlight 从高亮映射中提取公司高亮（name 与 tags 字段）。
// highlight 为空时返回 nil。
func NewCompanyHighlight(highlight map[string][]string) *CompanyHighlight {
	if len(highlight) == 0 {
		return nil
	}

	h := &CompanyHighlight{}
	if fragments, ok := highlight["name"]; ok && len(fragments) > 0 {
		h.TitleHighlight = fragments[0]
	}
	if fragments, ok := highlight["tags"]; ok && len(fragments) > 0 {
		h.TagsHighlight = buildTagHighlightMap(fragments)
	}
	return h
}

// buildTagHighlightMap 将每个高亮片段还原出原始标签文本并建立映射。
// 还原失败的片段被跳过——单个标签的高亮缺失不应影响整个响应。
func buildTagHighlightMap(fragments []string) map[string]string {
	tags := make(map[string]string, len(fragments))
	for _, fragment := range fragments {
		original, ok := originalTagText(fragment)
		if !ok {
			continue
		}
		tags[original] = fragment
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// originalTagText 从带内联标记的高亮片段中还原原始文本：
// 取第一个 '>' 与最后一个 '<' 之间的子串。标记不完整（缺失任一侧，
// 或 '<' 出现在 '>' 之前）时返回 ok=false。
func originalTagText(fragment string) (string, bool) {
	i := strings.IndexByte(fragment, '>')
	j := strings.LastIndexByte(fragment, '<')
	if i == -1 || j == -1 || j <= i {
		return "", false
	}
	return fragment[i+1 : j], true
}
