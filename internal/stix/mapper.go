package stix

import (
	"bytes"
	"encoding/json"
	"fmt"

	"attack2mongo/internal/domain"
)

// SampleLimit 是样例原始对象打印的最大字符数。
const SampleLimit = 500

// Select 按 type 过滤 bundle 中的对象，保持原有顺序。
// 缺少 type 或 type 不是字符串的对象直接跳过，不视为错误。
func Select(bundle Bundle, entityType string) ([]json.RawMessage, error) {
	selected := make([]json.RawMessage, 0)
	for idx, raw := range bundle.Objects {
		var header struct {
			Type json.RawMessage `json:"type"`
		}
		if err := json.Unmarshal(raw, &header); err != nil {
			return nil, fmt.Errorf("%w: 第 %d 个对象不是 JSON 对象: %w", ErrTransform, idx, err)
		}
		if len(header.Type) == 0 {
			continue
		}
		var typ string
		if err := json.Unmarshal(header.Type, &typ); err != nil {
			continue
		}
		if typ == entityType {
			selected = append(selected, raw)
		}
	}
	return selected, nil
}

// Transform 将单个 STIX 对象投影为 AttackPattern。
// 标量字段原样拷贝，只有数组或数组元素结构不对时才报错。
func Transform(raw json.RawMessage) (domain.AttackPattern, error) {
	var obj Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return domain.AttackPattern{}, fmt.Errorf("%w: %w", ErrTransform, err)
	}

	var record domain.AttackPattern
	scalars := []struct {
		name string
		raw  json.RawMessage
		dst  *any
	}{
		{"id", obj.ID, &record.ID},
		{"name", obj.Name, &record.Name},
		{"description", obj.Description, &record.Description},
		{"created", obj.Created, &record.Created},
		{"modified", obj.Modified, &record.Modified},
	}
	for _, s := range scalars {
		v, err := decodeValue(s.raw)
		if err != nil {
			return domain.AttackPattern{}, fmt.Errorf("%w: %s: %w", ErrTransform, s.name, err)
		}
		*s.dst = v
	}

	record.KillChainPhases = make([]any, 0, len(obj.KillChainPhases))
	for idx, el := range obj.KillChainPhases {
		var phase KillChainPhase
		if err := decodeElement(el, &phase); err != nil {
			return domain.AttackPattern{}, fmt.Errorf("%w: kill_chain_phases[%d]: %w", ErrTransform, idx, err)
		}
		name, err := decodeValue(phase.PhaseName)
		if err != nil {
			return domain.AttackPattern{}, fmt.Errorf("%w: kill_chain_phases[%d]: %w", ErrTransform, idx, err)
		}
		record.KillChainPhases = append(record.KillChainPhases, name)
	}

	record.ExternalReferences = make([]domain.Reference, 0, len(obj.ExternalReferences))
	for idx, el := range obj.ExternalReferences {
		var ref ExternalReference
		if err := decodeElement(el, &ref); err != nil {
			return domain.AttackPattern{}, fmt.Errorf("%w: external_references[%d]: %w", ErrTransform, idx, err)
		}
		var out domain.Reference
		fields := []struct {
			raw json.RawMessage
			dst *any
		}{
			{ref.SourceName, &out.SourceName},
			{ref.URL, &out.URL},
			{ref.Description, &out.Description},
		}
		for _, f := range fields {
			v, err := decodeValue(f.raw)
			if err != nil {
				return domain.AttackPattern{}, fmt.Errorf("%w: external_references[%d]: %w", ErrTransform, idx, err)
			}
			*f.dst = v
		}
		record.ExternalReferences = append(record.ExternalReferences, out)
	}

	return record, nil
}

// TransformAll 依次转换所有选中的对象，遇到第一个错误即返回。
func TransformAll(selected []json.RawMessage) ([]domain.AttackPattern, error) {
	records := make([]domain.AttackPattern, 0, len(selected))
	for idx, raw := range selected {
		record, err := Transform(raw)
		if err != nil {
			return nil, fmt.Errorf("第 %d 个匹配对象: %w", idx, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// BuildRecords 组合 Select 与 TransformAll。
func BuildRecords(bundle Bundle, entityType string) ([]domain.AttackPattern, error) {
	selected, err := Select(bundle, entityType)
	if err != nil {
		return nil, err
	}
	return TransformAll(selected)
}

// RawSample 返回缩进后的原始对象，超过 limit 个字符时截断并追加 "..."。
func RawSample(raw json.RawMessage, limit int) string {
	var buf bytes.Buffer
	text := string(raw)
	if err := json.Indent(&buf, raw, "", "  "); err == nil {
		text = buf.String()
	}
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "\n..."
}
