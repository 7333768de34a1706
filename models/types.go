package models

import "time"

// Progress status constants
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Direction constants
const (
	DirectionAcross = "across"
	DirectionDown   = "down"
)

// CrosswordTypeQuick is the only crossword type produced by the converter
const CrosswordTypeQuick = "quick"

// Request types

type IdentifyRequest struct {
	Email string `json:"email"`
}

// "x,y" -> letter; an empty letter clears the cell
type ProgressUpdateRequest struct {
	Cells map[string]string `json:"cells"`
}

// Response types

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type PuzzleResponse struct {
	ID           string            `json:"id"`
	PuzzleNumber int               `json:"puzzle_number"`
	Name         string            `json:"name"`
	Data         Crossword         `json:"data"`
	Progress     map[string]string `json:"progress"`
}

type ProgressResponse struct {
	PuzzleID     string            `json:"puzzle_id"`
	PuzzleNumber int               `json:"puzzle_number"`
	PuzzleName   string            `json:"puzzle_name"`
	CellProgress map[string]string `json:"cell_progress"`
	Status       string            `json:"status"`
	StartedAt    time.Time         `json:"started_at"`
	CompletedAt  *time.Time        `json:"completed_at"`
	TotalFilled  int               `json:"total_filled"`
}

type ProgressHistoryItem struct {
	PuzzleID             string     `json:"puzzle_id"`
	PuzzleNumber         int        `json:"puzzle_number"`
	PuzzleName           string     `json:"puzzle_name"`
	Status               string     `json:"status"`
	StartedAt            time.Time  `json:"started_at"`
	CompletedAt          *time.Time `json:"completed_at"`
	CompletionPercentage float64    `json:"completion_percentage"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// Domain types

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Puzzle struct {
	ID           string    `json:"id"`
	PuzzleNumber int       `json:"puzzle_number"`
	Name         string    `json:"name"`
	Data         Crossword `json:"data"`
	CrosshareID  *string   `json:"crosshare_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Progress struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	PuzzleID      string            `json:"puzzle_id"`
	CellProgress  map[string]string `json:"cell_progress"`
	Status        string            `json:"status"`
	StartedAt     time.Time         `json:"started_at"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	LastUpdatedAt time.Time         `json:"last_updated_at"`
}

// ProgressWithPuzzle is one row of a user's history
type ProgressWithPuzzle struct {
	Progress Progress
	Puzzle   Puzzle
}

// CAPI crossword types

type Crossword struct {
	ID                    string     `json:"id"`
	Number                int        `json:"number"`
	Name                  string     `json:"name"`
	Creator               Creator    `json:"creator"`
	Date                  int64      `json:"date"`
	WebPublicationDate    int64      `json:"webPublicationDate"`
	Dimensions            Dimensions `json:"dimensions"`
	CrosswordType         string     `json:"crosswordType"`
	SolutionAvailable     bool       `json:"solutionAvailable"`
	DateSolutionAvailable int64      `json:"dateSolutionAvailable"`
	Entries               []Entry    `json:"entries"`
}

type Creator struct {
	Name   string `json:"name"`
	WebURL string `json:"webUrl"`
}

type Dimensions struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// TotalCells is the number of grid squares, blocks included
func (d Dimensions) TotalCells() int {
	return d.Cols * d.Rows
}

type Entry struct {
	ID                 string           `json:"id"`
	Number             int              `json:"number"`
	HumanNumber        string           `json:"humanNumber"`
	Clue               string           `json:"clue"`
	Direction          string           `json:"direction"`
	Length             int              `json:"length"`
	Position           Position         `json:"position"`
	SeparatorLocations map[string][]int `json:"separatorLocations"`
	Solution           string           `json:"solution"`
	Group              []string         `json:"group"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
