package models

// UserStats are lifetime counters.
type UserStats struct {
	TotalTasksCompleted    int `json:"totalTasksCompleted"` // decrements on un-complete
	FocusSessionsCompleted int `json:"focusSessionsCompleted"`
	AIPlansGenerated       int `json:"aiPlansGenerated"`
	FocusDust              int `json:"focusDust"`
}

// Streak tracks consecutive login days.
type Streak struct {
	Current       int    `json:"current"`
	Longest       int    `json:"longest"`
	LastLoginDate string `json:"lastLoginDate"` // YYYY-MM-DD, empty before first login
}

// UserData is the full per-user snapshot, loaded and saved as one unit.
type UserData struct {
	SchemaVersion int           `json:"schemaVersion"`
	Tasks         []Task        `json:"tasks"`
	Todos         []TodoItem    `json:"todos"`
	Achievements  []Achievement `json:"achievements"`
	Stats         UserStats     `json:"stats"`
	Sanctuary     []Crystal     `json:"sanctuary"`
	Challenges    []Challenge   `json:"challenges"`
	Streak        Streak        `json:"streak"`
	IsPro         bool          `json:"isPro"`
	BlockedApps   []string      `json:"blockedApps"`
}

// Clone returns a deep copy so reducers never alias the caller's slices.
func (u *UserData) Clone() *UserData {
	if u == nil {
		return nil
	}
	c := *u
	c.Tasks = append([]Task(nil), u.Tasks...)
	c.Todos = append([]TodoItem(nil), u.Todos...)
	c.Achievements = append([]Achievement(nil), u.Achievements...)
	c.Sanctuary = append([]Crystal(nil), u.Sanctuary...)
	c.Challenges = append([]Challenge(nil), u.Challenges...)
	c.BlockedApps = append([]string(nil), u.BlockedApps...)
	return &c
}

// FindTask returns the index of the task with id, or -1.
func (u *UserData) FindTask(id int64) int {
	for i := range u.Tasks {
		if u.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// FindTodo returns the index of the todo with id, or -1.
func (u *UserData) FindTodo(id int64) int {
	for i := range u.Todos {
		if u.Todos[i].ID == id {
			return i
		}
	}
	return -1
}

// FindChallenge returns the index of the challenge with id, or -1.
func (u *UserData) FindChallenge(id string) int {
	for i := range u.Challenges {
		if u.Challenges[i].ID == id {
			return i
		}
	}
	return -1
}

// CountCrystals returns how many crystals of type t the sanctuary holds.
func (u *UserData) CountCrystals(t CrystalType) int {
	n := 0
	for _, c := range u.Sanctuary {
		if c.Type == t {
			n++
		}
	}
	return n
}

// CompletedCount returns completed timeline tasks plus completed todos.
func (u *UserData) CompletedCount() int {
	n := 0
	for _, t := range u.Tasks {
		if t.Completed {
			n++
		}
	}
	for _, t := range u.Todos {
		if t.Completed {
			n++
		}
	}
	return n
}
