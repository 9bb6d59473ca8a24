package database

import (
	"bytes"
	"errors"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
	"github.com/go-webauthn/webauthn/webauthn"
)

func CreateStudentCredentials(studentID string) (models.StudentCredentials, error) {
	GORMDBMutex.Lock()
	defer GORMDBMutex.Unlock()
	record := models.StudentCredentials{
		StudentID: studentID,
	}
	err := GORMDB.Create(&record).Error
	if err != nil {
		return record, err
	}
	return record, nil
}

func GetStudentCredentials(studentID string) (models.StudentCredentials, error) {
	GORMDBMutex.Lock()
	defer GORMDBMutex.Unlock()
	var record models.StudentCredentials
	err := GORMDB.Where("student_id = ?", studentID).First(&record).Error
	if err != nil {
		return record, err
	}
	return record, nil
}

func AddCredential(studentID string, credential *webauthn.Credential) error {
	record, err := GetStudentCredentials(studentID)
	if err != nil {
		return err
	}
	GORMDBMutex.Lock()
	defer GORMDBMutex.Unlock()

	record.Credentials = append(record.Credentials, *credential)
	return GORMDB.Save(&record).Error
}

func UpdateCredential(studentID string, credential *webauthn.Credential) error {
	record, err := GetStudentCredentials(studentID)
	if err != nil {
		return err
	}

	GORMDBMutex.Lock()
	defer GORMDBMutex.Unlock()
	updated := false
	for i, existing := range record.Credentials {
		if bytes.Equal(existing.ID, credential.ID) {
			record.Credentials[i] = *credential
			updated = true
			break
		}
	}
	if !updated {
		return errors.New("credential not found")
	}
	return GORMDB.Save(&record).Error
}
