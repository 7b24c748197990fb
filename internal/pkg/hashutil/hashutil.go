// Package hashutil 提供内容寻址的文档 ID 生成。
//
// 同一个自然键（例如职位的组合标题+来源 URL）永远哈希出同一个文档 ID，
// 因此同步流程在恢复或重跑时对同一条记录的重复写入是幂等的 upsert，
// 不会在搜索索引中产生逻辑上的重复文档。
package hashutil

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// HashString 计算 str 的 MD5 摘要并以大写十六进制形式返回。
func HashString(str string) string {
	sum := md5.Sum([]byte(str))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// PositionDocumentID 根据职位的组合标题与来源 URL 生成文档 ID。
// 组合标题形如 "公司名#职位名"，与 URL 拼接后构成职位的自然键。
func PositionDocumentID(compositeTitle, sourceURL string) string {
	return HashString(compositeTitle + sourceURL)
}
