package model

// Professor 教师名单表 — 对应 professors
// 名单仅用于表单下拉建议，与课程没有固定映射
type Professor struct {
	ProfessorID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"professor_id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	SortOrder   int    `gorm:"not null;default:0"                             json:"sort_order"`
	BaseModel
}

// TableName 指定表名
func (Professor) TableName() string { return "professors" }
