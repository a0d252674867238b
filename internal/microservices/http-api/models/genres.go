package models

type Genre struct {
	ID    int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Title string `json:"title" gorm:"size:50;not null"`
}

func (Genre) TableName() string {
	return "genres"
}
