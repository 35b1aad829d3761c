package models

import "time"

// Conventional opinion categories. Category is free text in storage.
const (
	CategoryCafeteria = "cafeteria"
	CategoryLabs      = "laboratorios"
)

// Opinion is one rating submission; a user may submit any number per category.
type Opinion struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email       string    `json:"email" gorm:"index;not null;size:100"`
	Category    string    `json:"categoria" gorm:"column:categoria;index;size:50"`
	Rating      int       `json:"calificacion" gorm:"column:calificacion"`
	Comment     string    `json:"comentario" gorm:"column:comentario;type:text"`
	SubmittedAt time.Time `json:"fecha" gorm:"column:fecha;default:CURRENT_TIMESTAMP"`
}

func (Opinion) TableName() string {
	return "opiniones"
}
