package domain

const (
	// TypeAttackPattern 是 STIX 中 ATT&CK 技术对象的类型标签。
	TypeAttackPattern = "attack-pattern"

	// StagingSuffix 用于 swap 模式下的临时集合名。
	StagingSuffix = "_staging"
)

// StagingName 返回目标集合对应的临时集合名。
func StagingName(collection string) string {
	return collection + StagingSuffix
}
