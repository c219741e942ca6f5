package domain

// AttackPattern 是写入文档库的扁平化 ATT&CK 技术记录。
// 标量字段原样保留源数据中的 JSON 值，缺失时为 nil，序列化为 null。
type AttackPattern struct {
	ID                 any         `bson:"id" json:"id"`
	Name               any         `bson:"name" json:"name"`
	Description        any         `bson:"description" json:"description"`
	Created            any         `bson:"created" json:"created"`
	Modified           any         `bson:"modified" json:"modified"`
	KillChainPhases    []any       `bson:"kill_chain_phases" json:"kill_chain_phases"`
	ExternalReferences []Reference `bson:"external_references" json:"external_references"`
}

// Reference 只保留外部引用的三个字段。
type Reference struct {
	SourceName  any `bson:"source_name" json:"source_name"`
	URL         any `bson:"url" json:"url"`
	Description any `bson:"description" json:"description"`
}
