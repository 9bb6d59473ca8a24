package attendance

import (
	"errors"
	"fmt"
	"log"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/docstore"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
	"github.com/google/uuid"
)

// Registrar handles course registration: creating course documents and
// growing their student sets. Roster mutations share the recorder's
// conditional-write discipline; nothing overwrites a course document blind.
type Registrar struct {
	store docstore.Store
	newID func() string
}

func NewRegistrar(store docstore.Store) *Registrar {
	return &Registrar{store: store, newID: uuid.NewString}
}

// AddCourse creates a new course document and returns its id.
func (g *Registrar) AddCourse(req models.AddCourseRequest) (string, error) {
	if req.Name == "" {
		return "", errors.New("course name is required")
	}
	id := g.newID()
	course := models.Course{
		ID:      id,
		Name:    req.Name,
		Degree:  req.Degree,
		Section: req.Section,
		Career:  req.Career,
	}
	if err := g.store.Create(id, encodeCourse(course)); err != nil {
		return "", fmt.Errorf("%w: create course: %v", docstore.ErrUnavailable, err)
	}
	log.Println("Created course", id, req.Name)
	return id, nil
}

// AddStudentsToCourse unions the given student ids into the course's
// studentsId set. Ids already present are ignored.
func (g *Registrar) AddStudentsToCourse(courseID string, studentIDs []string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	for attempt := 0; attempt < recordAttempts; attempt++ {
		doc, err := g.store.Get(courseID)
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrCourseNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: read course %s: %v", docstore.ErrUnavailable, courseID, err)
		}

		existing := decodeStringSlice(doc.Data["studentsId"])
		seen := make(map[string]struct{}, len(existing))
		for _, id := range existing {
			seen[id] = struct{}{}
		}
		added := false
		union := existing
		for _, id := range studentIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			union = append(union, id)
			added = true
		}
		if !added {
			return nil
		}

		data := make(map[string]any, len(doc.Data))
		for k, v := range doc.Data {
			data[k] = v
		}
		encoded := make([]any, len(union))
		for i, id := range union {
			encoded[i] = id
		}
		data["studentsId"] = encoded

		err = g.store.SetIfVersion(courseID, data, doc.Version)
		if err == nil {
			return nil
		}
		if errors.Is(err, docstore.ErrConflict) {
			continue
		}
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("%w: write course %s: %v", docstore.ErrUnavailable, courseID, err)
	}
	return ErrConcurrentModification
}

// Course loads and decodes one course document.
func (g *Registrar) Course(courseID string) (models.Course, error) {
	doc, err := g.store.Get(courseID)
	if errors.Is(err, docstore.ErrNotFound) {
		return models.Course{}, ErrCourseNotFound
	}
	if err != nil {
		return models.Course{}, fmt.Errorf("%w: read course %s: %v", docstore.ErrUnavailable, courseID, err)
	}
	return decodeCourse(courseID, doc.Data)
}
