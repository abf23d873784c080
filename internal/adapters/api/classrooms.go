package api

import (
	"context"
	"fmt"

	"reservas/internal/domain/classroom"
)

// ClassroomGateway is the typed CRUD surface for /classrooms.
type ClassroomGateway struct {
	c *Client
}

type classroomWire struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	Capacity     int    `json:"capacity"`
	HasComputers bool   `json:"hasComputers"`
}

func classroomFromWire(w classroomWire) classroom.Classroom {
	return classroom.Classroom{ID: w.ID, Name: w.Name, Capacity: w.Capacity, HasComputers: w.HasComputers}
}

func classroomToWire(c classroom.Classroom) classroomWire {
	return classroomWire{Name: c.Name, Capacity: c.Capacity, HasComputers: c.HasComputers}
}

// List retrieves all classrooms.
func (g *ClassroomGateway) List(ctx context.Context) ([]classroom.Classroom, error) {
	var wires []classroomWire
	if err := g.c.get(ctx, "/classrooms", &wires); err != nil {
		return nil, err
	}
	results := make([]classroom.Classroom, 0, len(wires))
	for _, w := range wires {
		results = append(results, classroomFromWire(w))
	}
	return results, nil
}

// Get retrieves one classroom by id.
func (g *ClassroomGateway) Get(ctx context.Context, id int64) (classroom.Classroom, error) {
	var w classroomWire
	if err := g.c.get(ctx, fmt.Sprintf("/classrooms/%d", id), &w); err != nil {
		return classroom.Classroom{}, err
	}
	return classroomFromWire(w), nil
}

// Create persists a new classroom and returns the server's copy.
func (g *ClassroomGateway) Create(ctx context.Context, draft classroom.Classroom) (classroom.Classroom, error) {
	var w classroomWire
	if err := g.c.post(ctx, "/classrooms", classroomToWire(draft), &w); err != nil {
		return classroom.Classroom{}, err
	}
	return classroomFromWire(w), nil
}

// Update replaces a classroom and returns the server's copy.
func (g *ClassroomGateway) Update(ctx context.Context, id int64, draft classroom.Classroom) (classroom.Classroom, error) {
	var w classroomWire
	if err := g.c.put(ctx, fmt.Sprintf("/classrooms/%d", id), classroomToWire(draft), &w); err != nil {
		return classroom.Classroom{}, err
	}
	return classroomFromWire(w), nil
}

// Delete removes a classroom by id.
func (g *ClassroomGateway) Delete(ctx context.Context, id int64) error {
	return g.c.delete(ctx, fmt.Sprintf("/classrooms/%d", id))
}
