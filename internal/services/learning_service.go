package services

import (
	"sort"
	"sync"

	"aidagent_go_backend/internal/apperrors"
)

// LearningModule is one learn-and-earn course entry.
type LearningModule struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	XPReward    int    `json:"xp_reward"`
	Completed   bool   `json:"completed"`
	Duration    string `json:"duration"`
	Difficulty  string `json:"difficulty"`
}

// LearningProgress summarizes module completion.
type LearningProgress struct {
	TotalModules     int     `json:"total_modules"`
	CompletedModules int     `json:"completed_modules"`
	Percentage       float64 `json:"percentage"`
	EarnedXP         int     `json:"earned_xp"`
}

// LearningService tracks the synthetic learning modules in memory.
type LearningService struct {
	mu      sync.Mutex
	modules map[uint]*LearningModule
}

func NewLearningService() *LearningService {
	s := &LearningService{modules: make(map[uint]*LearningModule)}
	seed := []*LearningModule{
		{ID: 1, Title: "Intro to Web3 Agents", Description: "Learn the basics of autonomous agents in the Web3 ecosystem", XPReward: 100, Completed: true, Duration: "30 min", Difficulty: "beginner"},
		{ID: 2, Title: "DeFi Risk Assessment", Description: "Master the art of identifying and mitigating DeFi risks", XPReward: 150, Duration: "45 min", Difficulty: "intermediate"},
		{ID: 3, Title: "Advanced Token Analysis", Description: "Deep dive into tokenomics and market analysis techniques", XPReward: 200, Duration: "60 min", Difficulty: "advanced"},
		{ID: 4, Title: "Avoiding Rugpulls", Description: "Essential strategies to protect yourself from scam projects", XPReward: 75, Duration: "25 min", Difficulty: "beginner"},
		{ID: 5, Title: "Yield Farming Strategies", Description: "Optimize your returns with proven yield farming techniques", XPReward: 175, Duration: "50 min", Difficulty: "intermediate"},
	}
	for _, module := range seed {
		s.modules[module.ID] = module
	}
	return s
}

// List returns all modules ordered by id.
func (s *LearningService) List() []LearningModule {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]LearningModule, 0, len(s.modules))
	for _, module := range s.modules {
		result = append(result, *module)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Complete marks a module finished; completing twice is rejected.
func (s *LearningService) Complete(moduleID uint) (*LearningModule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	module, ok := s.modules[moduleID]
	if !ok {
		return nil, apperrors.NotFound("learning module not found")
	}
	if module.Completed {
		return nil, apperrors.Validation("module already completed")
	}
	module.Completed = true
	copied := *module
	return &copied, nil
}

// Progress reports completion counts, percentage and earned XP.
func (s *LearningService) Progress() LearningProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress := LearningProgress{TotalModules: len(s.modules)}
	for _, module := range s.modules {
		if module.Completed {
			progress.CompletedModules++
			progress.EarnedXP += module.XPReward
		}
	}
	if progress.TotalModules > 0 {
		progress.Percentage = float64(progress.CompletedModules) / float64(progress.TotalModules) * 100
	}
	return progress
}
