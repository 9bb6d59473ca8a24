package database

import (
	"database/sql"
	"log"
	"strings"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
)

// GetStudent looks up one student's reference record.
func GetStudent(id string) (models.Student, error) {
	DBMutex.Lock()
	defer DBMutex.Unlock()
	var s models.Student
	row := DB.QueryRow("SELECT id, name, email FROM students WHERE id = ?", id)
	err := row.Scan(&s.ID, &s.Name, &s.Email)
	if err != nil {
		return s, err
	}
	return s, nil
}

// GetStudentsByIDs fetches the reference records for the given ids. Missing
// ids are simply absent from the result.
func GetStudentsByIDs(ids []string) (students []models.Student, err error) {
	if len(ids) == 0 {
		return nil, nil
	}
	DBMutex.Lock()
	defer DBMutex.Unlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	var rows *sql.Rows
	rows, err = DB.Query("SELECT id, name, email FROM students WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		log.Println("Failed to query students:", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Student
		err = rows.Scan(&s.ID, &s.Name, &s.Email)
		if err != nil {
			log.Println("Failed to scan student:", err)
			return
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
