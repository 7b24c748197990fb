package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPositionHighlight_Empty(t *testing.T) {
	assert.Nil(t, NewPositionHighlight(nil))
	assert.Nil(t, NewPositionHighlight(map[string][]string{}))
}

func TestNewPositionHighlight_TitleAndTags(t *testing.T) {
	highlight := map[string][]string{
		"title": {
			`Microsoft#<span class="title highlight">C++</span> Engineer`,
			`第二个片段应被忽略`,
		},
		"description.tags": {
			`<span class="tag highlight">微软</span>`,
			`<span class="tag highlight">高福利</span>`,
		},
	}

	h := NewPositionHighlight(highlight)
	assert.NotNil(t, h)
	assert.Equal(t, `Microsoft#<span class="title highlight">C++</span> Engineer`, h.TitleHighlight)
	assert.Equal(t, map[string]string{
		"微软":  `<span class="tag highlight">微软</span>`,
		"高福利": `<span class="tag highlight">高福利</span>`,
	}, h.TagsHighlight)
}

func TestNewPositionHighlight_MalformedTagFragment(t *testing.T) {
	// 标记不完整的片段被跳过，不影响其余标签。
	highlight := map[string][]string{
		"description.tags": {
			`没有任何标记`,
			`<span class="tag highlight">外企</span>`,
			`只有左尖括号<`,
		},
	}

	h := NewPositionHighlight(highlight)
	assert.NotNil(t, h)
	assert.Equal(t, map[string]string{
		"外企": `<span class="tag highlight">外企</span>`,
	}, h.TagsHighlight)
}

func TestNewPositionHighlight_AllTagFragmentsMalformed(t *testing.T) {
	highlight := map[string][]string{
		"description.tags": {`坏片段`, `另一个坏片段`},
	}

	h := NewPositionHighlight(highlight)
	assert.NotNil(t, h)
	assert.Nil(t, h.TagsHighlight)
}

func TestNewCompanyHighlight(t *testing.T) {
	highlight := map[string][]string{
		"name": {`<span class="title highlight">Microsoft</span>`},
		"tags": {`<span class="tag highlight">外企</span>`},
	}

	h := NewCompanyHighlight(highlight)
	assert.NotNil(t, h)
	assert.Equal(t, `<span class="title highlight">Microsoft</span>`, h.TitleHighlight)
	assert.Equal(t, map[string]string{
		"外企": `<span class="tag highlight">外企</span>`,
	}, h.TagsHighlight)
}

func TestOriginalTagText(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
		ok       bool
	}{
		{"完整标记", `<span class="tag highlight">微软</span>`, "微软", true},
		{"无标记", "微软", "", false},
		{"只有右尖括号", "a>b", "", false},
		{"左尖括号在前", "<>", "", false},
		{"标记间无内容", "><", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := originalTagText(tt.fragment)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
