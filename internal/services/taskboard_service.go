package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"aidagent_go_backend/internal/apperrors"
)

// Task statuses. Transitions: available -> accepted -> pending -> completed.
const (
	TaskStatusAvailable = "available"
	TaskStatusAccepted  = "accepted"
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task filter tabs.
const (
	TaskFilterAll       = "all"
	TaskFilterMy        = "my"
	TaskFilterCompleted = "completed"
)

// Task is one gamified board entry with an XP reward.
type Task struct {
	ID          uint      `json:"id"`
	Project     string    `json:"project"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Reward      int       `json:"reward"`
	Deadline    time.Time `json:"deadline"`
	Status      string    `json:"status"`
	Type        string    `json:"type"`
	Proof       string    `json:"proof,omitempty"`
}

// TaskboardService holds the synthetic task board in memory.
type TaskboardService struct {
	mu    sync.Mutex
	tasks map[uint]*Task
}

func NewTaskboardService() *TaskboardService {
	s := &TaskboardService{tasks: make(map[uint]*Task)}
	seed := []*Task{
		{
			ID:          1,
			Project:     "DeFi Protocol",
			Title:       "Analyze new yield farming opportunity",
			Description: "Research and provide analysis on the new liquidity mining program",
			Reward:      150,
			Deadline:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Status:      TaskStatusAvailable,
			Type:        "analysis",
		},
		{
			ID:          2,
			Project:     "NFT Collection",
			Title:       "Social media promotion",
			Description: "Create and share promotional content across social platforms",
			Reward:      75,
			Deadline:    time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
			Status:      TaskStatusAccepted,
			Type:        "shill",
		},
		{
			ID:          3,
			Project:     "Web3 Platform",
			Title:       "Community engagement",
			Description: "Participate in Discord discussions and help onboard new users",
			Reward:      50,
			Deadline:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Status:      TaskStatusCompleted,
			Type:        "engagement",
		},
	}
	for _, task := range seed {
		s.tasks[task.ID] = task
	}
	return s
}

// List returns tasks matching the given tab filter, ordered by id.
func (s *TaskboardService) List(filter string) ([]Task, error) {
	switch filter {
	case TaskFilterAll, TaskFilterMy, TaskFilterCompleted:
	case "":
		filter = TaskFilterAll
	default:
		return nil, apperrors.Validation("unknown task filter")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result []Task
	for _, task := range s.tasks {
		switch filter {
		case TaskFilterMy:
			if task.Status != TaskStatusAccepted && task.Status != TaskStatusPending {
				continue
			}
		case TaskFilterCompleted:
			if task.Status != TaskStatusCompleted {
				continue
			}
		}
		result = append(result, *task)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Accept claims an available task.
func (s *TaskboardService) Accept(taskID uint) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, apperrors.NotFound("task not found")
	}
	if task.Status != TaskStatusAvailable {
		return nil, apperrors.Validation("task is not available")
	}
	task.Status = TaskStatusAccepted
	copied := *task
	return &copied, nil
}

// SubmitProof moves an accepted task to pending review.
func (s *TaskboardService) SubmitProof(taskID uint, proof string) (*Task, error) {
	if strings.TrimSpace(proof) == "" {
		return nil, apperrors.Validation("proof must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, apperrors.NotFound("task not found")
	}
	if task.Status != TaskStatusAccepted {
		return nil, apperrors.Validation("task has not been accepted")
	}
	task.Status = TaskStatusPending
	task.Proof = proof
	copied := *task
	return &copied, nil
}
