package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusDelayed    TaskStatus = "delayed"
)

// WritableStatuses are the statuses a client may set on create/edit.
// pending and delayed exist only in legacy rows and are never written
// by this service.
var WritableStatuses = []TaskStatus{TaskStatusInProgress, TaskStatusCompleted}

func (s TaskStatus) Writable() bool {
	for _, w := range WritableStatuses {
		if s == w {
			return true
		}
	}
	return false
}

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

type ReviewRouteKind string

const (
	ReviewRouteTeam       ReviewRouteKind = "team"
	ReviewRouteSupervisor ReviewRouteKind = "supervisor"
)

// DayLayout is the wire format for calendar-day fields. Day fields are
// stored as plain text, never as driver-converted dates, so the string
// a client wrote is the string that comes back, and malformed values
// survive round trips to be diagnosed instead of crashing a parse.
const DayLayout = "2006-01-02"

type Task struct {
	ID                   uint            `json:"id" gorm:"primaryKey"`
	DailyTaskID          uint            `json:"daily_task_id" gorm:"not null;index"`
	Title                string          `json:"title" gorm:"not null"`
	Description          string          `json:"description"`
	Contribution         string          `json:"contribution"`
	RelatedProject       string          `json:"related_project"`
	AchievedDeliverables string          `json:"achieved_deliverables"`
	LocationName         string          `json:"location_name"`
	Status               TaskStatus      `json:"status" gorm:"default:'in_progress'"`
	ReviewStatus         ReviewStatus    `json:"review_status" gorm:"default:'pending'"`
	Reviewed             bool            `json:"reviewed" gorm:"default:false"`
	ReviewComment        string          `json:"review_comment"`
	DueDate              string          `json:"due_date"`
	IsShifted            bool            `json:"isShifted" gorm:"default:false"`
	OriginalDueDate      string          `json:"originalDueDate"`
	LastShiftedDate      string          `json:"lastShiftedDate"`
	WorkDaysCount        int             `json:"workDaysCount" gorm:"default:1"`
	ReviewRoute          ReviewRouteKind `json:"review_route" gorm:"not null"`
	ReviewTeamID         *uint           `json:"review_team_id"`
	TaskTypeID           *uint           `json:"task_type_id"`
	DepartmentID         *uint           `json:"department_id"`
	CompanyServedID      *uint           `json:"company_served_id"`
	CompanyServedName    string          `json:"company_served_name"`
	CreatedBy            uint            `json:"created_by"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DeletedAt            *time.Time      `json:"deleted_at,omitempty" gorm:"index"`
	CanEdit              bool            `json:"canEdit" gorm:"-"`
	ReviewTeam           *Team           `json:"review_team,omitempty" gorm:"foreignKey:ReviewTeamID"`
	TaskType             *TaskType       `json:"task_type,omitempty" gorm:"foreignKey:TaskTypeID"`
	Department           *Department     `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	CompanyServed        *Company        `json:"company_served,omitempty" gorm:"foreignKey:CompanyServedID"`
	Creator              *User           `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Comments             []Comment       `json:"comments,omitempty" gorm:"foreignKey:TaskID"`
	Attachments          []Attachment    `json:"attached_documents,omitempty" gorm:"foreignKey:TaskID"`
}

// DailyTask groups one user's tasks for one calendar day. It is the
// aggregation boundary: tasks never exist outside a DailyTask, and the
// group itself is created implicitly when the day's first task is.
type DailyTask struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UserID         uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_day"`
	SubmissionDate string     `json:"submission_date" gorm:"uniqueIndex:idx_user_day"`
	Submitted      bool       `json:"submitted" gorm:"default:false"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Tasks          []Task     `json:"tasks" gorm:"foreignKey:DailyTaskID"`
	User           *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type TaskType struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null;unique"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

type Team struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	LeadID    *uint     `json:"lead_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Lead      *User     `json:"lead,omitempty" gorm:"foreignKey:LeadID"`
	Members   []User    `json:"members,omitempty" gorm:"many2many:team_members;"`
}

type Department struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;unique"`
}

type Company struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;unique"`
}

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	Author    string    `json:"author" gorm:"not null"`
	AuthorID  uint      `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Attachment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"not null"`
	Filename  string    `json:"filename" gorm:"not null"`
	Path      string    `json:"path" gorm:"not null"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}
