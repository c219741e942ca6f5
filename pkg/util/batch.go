package util

// Batch 按 size 切分 items 并保持顺序，size <= 0 时整体作为一批。
// 每一批都是独立拷贝，调用方可以安全地修改。
func Batch[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(items)
	}
	result := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		result = append(result, append([]T(nil), items[start:end]...))
	}
	return result
}
