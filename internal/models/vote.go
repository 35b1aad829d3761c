package models

import "time"

// Vote is one election ballot. Email is unique: a user votes at most once.
type Vote struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null;size:100"`
	Candidate   string    `json:"candidato" gorm:"column:candidato;size:50"`
	Proposals   string    `json:"propuestas" gorm:"column:propuestas;type:text"`
	Comments    string    `json:"comentarios" gorm:"column:comentarios;type:text"`
	SubmittedAt time.Time `json:"fecha" gorm:"column:fecha;default:CURRENT_TIMESTAMP"`
}

func (Vote) TableName() string {
	return "votos"
}

// CandidateTally is one row of the grouped vote count
type CandidateTally struct {
	Candidate string `json:"candidato" gorm:"column:candidato"`
	Total     int64  `json:"total" gorm:"column:total"`
}
