package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashString_Deterministic(t *testing.T) {
	first := HashString("Microsoft#C++ Engineer")
	second := HashString("Microsoft#C++ Engineer")
	assert.Equal(t, first, second, "同一输入必须哈希出同一 ID")
}

func TestHashString_Format(t *testing.T) {
	// MD5 摘要固定 32 个十六进制字符，且统一大写。
	h := HashString("任意输入")
	assert.Regexp(t, "^[0-9A-F]{32}$", h)
}

func TestHashString_KnownValue(t *testing.T) {
	// MD5("") 的标准值，防止摘要算法被意外替换。
	assert.Equal(t, "D41D8CD98F00B204E9800998ECF8427E", HashString(""))
}

func TestPositionDocumentID(t *testing.T) {
	id := PositionDocumentID("Microsoft#C++ Engineer", "Job Url 00")
	assert.Equal(t, HashString("Microsoft#C++ EngineerJob Url 00"), id)

	// 标题或 URL 任一变化都应产生不同的 ID。
	assert.NotEqual(t, id, PositionDocumentID("Microsoft#C++ Engineer", "Job Url 01"))
	assert.NotEqual(t, id, PositionDocumentID("Microsoft#Java Engineer", "Job Url 00"))
}
