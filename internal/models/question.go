package models

import "github.com/google/uuid"

// Question is a Q&A board entry; Answer stays empty until someone replies.
type Question struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Text    string    `json:"text" db:"text" validate:"required,notblank,max=1000"`
	Answer  string    `json:"answer" db:"answer" validate:"max=4000"`
	AskedBy string    `json:"asked_by" db:"asked_by" yaml:"asked_by" validate:"max=100"`
}

func (q Question) EntityID() uuid.UUID { return q.ID }

func (q Question) WithID(id uuid.UUID) Question {
	q.ID = id
	return q
}

func (q Question) Validate() error { return Validate(q) }

func (q Question) UniqueKey() string { return "" }

func (q Question) SearchFields() map[string]string {
	return map[string]string{
		"text":     q.Text,
		"answer":   q.Answer,
		"asked_by": q.AskedBy,
	}
}
