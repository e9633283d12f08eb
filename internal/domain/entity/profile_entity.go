package entity

import "time"

// CurriculumEntry is one degree line in a profile's curriculum.
type CurriculumEntry struct {
	ID        string `json:"_id"`
	Year      string `json:"year"`
	Title     string `json:"title"`
	Institute string `json:"institute"`
}

// Profile holds the biographical data of a user; one profile per user.
// The "adress" spelling is part of the wire contract.
type Profile struct {
	ID             string            `json:"_id"`
	UserID         string            `json:"user"`
	Birthdate      time.Time         `json:"birthdate"`
	Bio            string            `json:"bio"`
	Address        string            `json:"adress"`
	Job            string            `json:"job"`
	JobLocation    string            `json:"jobLocation"`
	JobGovernorate string            `json:"jobGovernorate"`
	JobCity        string            `json:"jobCity"`
	Skills         []string          `json:"skills"`
	LastDegree     string            `json:"lastDegree"`
	LastInstitute  string            `json:"lastInstitute"`
	Curriculum     []CurriculumEntry `json:"curriculum"`
}
