package model

// Entity is implemented by every value the persistent store can stage:
// Task, SubTask and DailyEnergyRecord.
type Entity interface {
	EntityID() string
	entity()
}

func (t Task) EntityID() string              { return t.ID }
func (s SubTask) EntityID() string           { return s.ID }
func (r DailyEnergyRecord) EntityID() string { return r.ID }

func (Task) entity()              {}
func (SubTask) entity()           {}
func (DailyEnergyRecord) entity() {}
