package stix

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Bundle 是 STIX bundle 的最小视图，objects 保留原始字节，按需解码。
type Bundle struct {
	Type    string            `json:"type,omitempty"`
	ID      string            `json:"id,omitempty"`
	Objects []json.RawMessage `json:"objects"`
}

// Object 表示一个被选中的 STIX 对象。标量字段保留原始 JSON，不校验类型。
type Object struct {
	ID                 json.RawMessage   `json:"id"`
	Name               json.RawMessage   `json:"name"`
	Description        json.RawMessage   `json:"description"`
	Created            json.RawMessage   `json:"created"`
	Modified           json.RawMessage   `json:"modified"`
	KillChainPhases    []json.RawMessage `json:"kill_chain_phases"`
	ExternalReferences []json.RawMessage `json:"external_references"`
}

// KillChainPhase 只取 phase_name，其余字段忽略。
type KillChainPhase struct {
	PhaseName json.RawMessage `json:"phase_name"`
}

// ExternalReference 只取输出需要的三个字段。
type ExternalReference struct {
	SourceName  json.RawMessage `json:"source_name"`
	URL         json.RawMessage `json:"url"`
	Description json.RawMessage `json:"description"`
}

var null = []byte("null")

// decodeValue 把原始 JSON 转成可写入 bson 的值，缺失或 null 返回 nil。
// 数字保留为 json.Number，避免精度损失。
func decodeValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 || bytes.Equal(raw, null) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("解码字段失败: %w", err)
	}
	return v, nil
}

// decodeElement 解码数组中的一个对象元素，null 或非对象都是错误。
func decodeElement(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), null) {
		return fmt.Errorf("元素为 null")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("元素不是对象: %w", err)
	}
	return nil
}
