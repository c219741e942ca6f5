package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashJSON 返回 v 的 JSON 编码的 sha256，用于比较两次运行的输入记录是否一致。
// encoding/json 对 map 的键排序，结果稳定。
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("编码待哈希内容失败: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
