package model

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/datatypes"
)

// Batch 批次表，对应 batches，以 batch-{id} 为文档键
type Batch struct {
	BatchID     int                                   `gorm:"primaryKey;autoIncrement:false"              json:"id"`
	DocKey      string                                `gorm:"type:varchar(32);uniqueIndex;not null"       json:"-"`
	BatchName   string                                `gorm:"type:varchar(200);not null"                  json:"batchName"`
	Type        string                                `gorm:"type:varchar(10);not null;default:'weekday'" json:"type"`
	Semesters   datatypes.JSONSlice[SemesterRecord]   `gorm:"type:jsonb;not null"                         json:"semesters"`
	Assignments datatypes.JSONSlice[AssignmentRecord] `gorm:"type:jsonb;not null"                         json:"assignments"`
	BaseModel
}

// TableName 指定表名
func (Batch) TableName() string { return "batches" }

// BatchDocument 批次持久化文档（远端与本地兜底存储共用的载荷形状）
type BatchDocument struct {
	ID          int                `json:"id"`
	BatchName   string             `json:"batchName"`
	Type        string             `json:"type"`
	Semesters   []SemesterRecord   `json:"semesters"`
	Assignments []AssignmentRecord `json:"assignments"`
}

// Key 文档键 batch-{id}
func (d BatchDocument) Key() string { return DocKey(d.ID) }

// DocKey 生成文档键
func DocKey(id int) string { return fmt.Sprintf("batch-%d", id) }

// ParseDocKey 从 batch-{id} 中解析 id
func ParseDocKey(key string) (int, bool) {
	if !strings.HasPrefix(key, "batch-") {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimPrefix(key, "batch-"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// NewBatchRow 由文档构造表记录
func NewBatchRow(doc BatchDocument) *Batch {
	return &Batch{
		BatchID:     doc.ID,
		DocKey:      doc.Key(),
		BatchName:   doc.BatchName,
		Type:        doc.Type,
		Semesters:   datatypes.JSONSlice[SemesterRecord](doc.Semesters),
		Assignments: datatypes.JSONSlice[AssignmentRecord](doc.Assignments),
	}
}

// Document 表记录转文档；id 缺失时从文档键推导
func (b *Batch) Document() BatchDocument {
	id := b.BatchID
	if id == 0 {
		id, _ = ParseDocKey(b.DocKey)
	}
	return BatchDocument{
		ID:          id,
		BatchName:   b.BatchName,
		Type:        b.Type,
		Semesters:   []SemesterRecord(b.Semesters),
		Assignments: []AssignmentRecord(b.Assignments),
	}
}
