// Package domain holds the plain value records the generators produce.
// Timestamps are UTC time.Time values; the repo layer owns the row format.
package domain

import "time"

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
}

type User struct {
	ID               string     `json:"id"`
	OrgID            string     `json:"org_id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Role             string     `json:"role" enum:"admin,member,limited"`
	Department       string     `json:"department"`
	JobTitle         string     `json:"job_title"`
	PhotoURL         string     `json:"photo_url,omitempty"`
	IsActive         bool       `json:"is_active"`
	WorkloadCapacity float64    `json:"workload_capacity"`
	CreatedAt        time.Time  `json:"created_at" format:"date-time"`
	LastActiveAt     *time.Time `json:"last_active_at,omitempty" format:"date-time"`
}

type Team struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TeamType    string    `json:"team_type"`
	Privacy     string    `json:"privacy" enum:"public,private,secret"`
	CreatedAt   time.Time `json:"created_at" format:"date-time"`
}

type TeamMembership struct {
	ID       string    `json:"id"`
	TeamID   string    `json:"team_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role" enum:"admin,member"`
	JoinedAt time.Time `json:"joined_at" format:"date-time"`
}

type Project struct {
	ID          string     `json:"id"`
	OrgID       string     `json:"org_id"`
	TeamID      string     `json:"team_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	OwnerID     string     `json:"owner_id"`
	ProjectType string     `json:"project_type" enum:"sprint,ongoing,bug_tracking,campaign,roadmap"`
	Privacy     string     `json:"privacy"`
	Status      string     `json:"status" enum:"active,completed,archived,on_hold"`
	Color       string     `json:"color,omitempty"`
	StartDate   time.Time  `json:"start_date" format:"date"`
	DueDate     time.Time  `json:"due_date" format:"date"`
	CompletedAt *time.Time `json:"completed_at,omitempty" format:"date-time"`
	CreatedAt   time.Time  `json:"created_at" format:"date-time"`
}

type Section struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
}

type Tag struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
}

type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	SectionID   string     `json:"section_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	AssigneeID  string     `json:"assignee_id"`
	CreatedBy   string     `json:"created_by"`
	Priority    string     `json:"priority" enum:"low,medium,high,urgent"`
	DueDate     *time.Time `json:"due_date,omitempty" format:"date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" format:"date-time"`
	CreatedAt   time.Time  `json:"created_at" format:"date-time"`
	ModifiedAt  time.Time  `json:"modified_at" format:"date-time"`
}

type TaskDependency struct {
	ID          string    `json:"id"`
	DependentID string    `json:"dependent_task_id"`
	BlockerID   string    `json:"dependency_task_id"`
	CreatedAt   time.Time `json:"created_at" format:"date-time"`
}

type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
}

type Attachment struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	UploadedBy string    `json:"uploaded_by"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	SizeBytes  int64     `json:"file_size_bytes"`
	CreatedAt  time.Time `json:"created_at" format:"date-time"`
}

type CustomFieldDefinition struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	FieldType string    `json:"field_type" enum:"text,number,enum,date,checkbox"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
}

type CustomFieldEnumOption struct {
	ID       string `json:"id"`
	FieldID  string `json:"field_id"`
	Value    string `json:"value"`
	Color    string `json:"color,omitempty"`
	Position int    `json:"position"`
}

// CustomFieldValue carries exactly one non-nil value slot, matching FieldType
// of its definition.
type CustomFieldValue struct {
	ID            string     `json:"id"`
	TaskID        string     `json:"task_id"`
	FieldID       string     `json:"field_id"`
	ValueText     *string    `json:"value_text,omitempty"`
	ValueNumber   *float64   `json:"value_number,omitempty"`
	ValueDate     *time.Time `json:"value_date,omitempty" format:"date"`
	ValueCheck    *bool      `json:"value_checkbox,omitempty"`
	ValueOptionID *string    `json:"value_enum_option_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at" format:"date-time"`
}

type TaskTag struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
}

// Dataset is the fully generated entity graph, in pipeline stage order.
type Dataset struct {
	Organization Organization
	Users        []User
	Teams        []Team
	Memberships  []TeamMembership
	Projects     []Project
	Sections     []Section
	Tags         []Tag
	Tasks        []Task
	Dependencies []TaskDependency
	Comments     []Comment
	Attachments  []Attachment
	FieldDefs    []CustomFieldDefinition
	FieldOptions []CustomFieldEnumOption
	FieldValues  []CustomFieldValue
	TaskTags     []TaskTag
}
