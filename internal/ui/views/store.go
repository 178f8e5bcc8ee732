package views

import "github.com/tgienger/todo/internal/models"

// Store is the task and tag storage the views read from and write to.
// Both *db.DB and *memstore.Store satisfy it.
type Store interface {
	ListTasks() ([]models.Task, error)
	CreateTask(in models.TaskInput) (int64, error)
	UpdateTask(id int64, in models.TaskInput) error
	CompleteTask(id int64) error
	UncompleteTask(id int64) error
	DeleteTask(id int64) error
	ClearCompleted() (int64, error)
	ListTags() ([]models.Tag, error)
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Attacher copies images into managed storage and finds them again
type Attacher interface {
	Attach(src string) (string, error)
	Managed(src string) bool
	Remove(name string) error
	Resolve(name string) (string, bool)
}
