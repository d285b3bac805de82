package main

import (
	"log"
	"time"

	"github.com/workpulse/daily-task-tracker/internal/database"
	"github.com/workpulse/daily-task-tracker/internal/models"
	"github.com/workpulse/daily-task-tracker/pkg/auth"
)

// Seeds a development database with departments, users, teams, task
// types and a few day groups in different lifecycle states.
func main() {
	db, err := database.NewDatabase("./data")
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	departments := []models.Department{
		{Name: "Engineering"},
		{Name: "Operations"},
		{Name: "Field Services"},
	}
	for i := range departments {
		db.FirstOrCreate(&departments[i], models.Department{Name: departments[i].Name})
	}

	password, err := auth.HashPassword("changeme123")
	if err != nil {
		log.Fatal("Failed to hash seed password:", err)
	}

	users := []models.User{
		{Email: "admin@example.com", Username: "admin", Password: password, Role: models.UserRoleAdmin},
		{Email: "sup@example.com", Username: "supervisor", Password: password, Role: models.UserRoleSupervisor, DepartmentID: &departments[0].ID},
		{Email: "emp@example.com", Username: "employee", Password: password, Role: models.UserRoleEmployee, DepartmentID: &departments[0].ID},
	}
	for i := range users {
		db.FirstOrCreate(&users[i], models.User{Username: users[i].Username})
	}

	team := models.Team{Name: "Platform", LeadID: &users[1].ID}
	db.FirstOrCreate(&team, models.Team{Name: team.Name})

	taskTypes := []models.TaskType{
		{Name: "Development", Description: "Feature and maintenance work"},
		{Name: "Reporting", Description: "Periodic reports and summaries"},
		{Name: "Site Visit", Description: "On-site client work"},
	}
	for i := range taskTypes {
		db.FirstOrCreate(&taskTypes[i], models.TaskType{Name: taskTypes[i].Name})
	}

	employee := users[2]
	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DayLayout)
	today := time.Now().Format(models.DayLayout)

	seedTasks := []models.Task{
		{
			Title:       "Finish integration tests",
			Description: "Cover the submit and rework flows",
			Status:      models.TaskStatusInProgress,
			ReviewRoute: models.ReviewRouteSupervisor,
			DueDate:     yesterday,
			CreatedBy:   employee.ID,
			TaskTypeID:  &taskTypes[0].ID,
		},
		{
			Title:        "Weekly status report",
			Description:  "Summarize the sprint for the client",
			Status:       models.TaskStatusCompleted,
			ReviewRoute:  models.ReviewRouteTeam,
			ReviewTeamID: &team.ID,
			DueDate:      today,
			CreatedBy:    employee.ID,
			TaskTypeID:   &taskTypes[1].ID,
		},
	}
	for i := range seedTasks {
		if err := db.CreateTask(&seedTasks[i]); err != nil {
			log.Printf("Skipping seed task %q: %v", seedTasks[i].Title, err)
		}
	}

	log.Println("Seed data loaded")
}
