// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package crosshare

// Clue directions as encoded by Crosshare
const (
	DirAcross = 0
	DirDown   = 1
)

// Block is the grid value of a black square
const Block = "."

type Size struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

type Clue struct {
	Num  int    `json:"num" yaml:"num"`
	Dir  int    `json:"dir" yaml:"dir"`
	Clue string `json:"clue" yaml:"clue"`
}

// Puzzle is a Crosshare puzzle as embedded in its page data.
// Grid is row-major; "." marks a block.
type Puzzle struct {
	ID         string   `json:"id" yaml:"id"`
	Title      string   `json:"title" yaml:"title"`
	AuthorName string   `json:"authorName" yaml:"authorName"`
	Size       Size     `json:"size" yaml:"size"`
	Grid       []string `json:"grid" yaml:"grid"`
	Clues      []Clue   `json:"clues" yaml:"clues"`
}

// PuzzleSummary is one entry of a featured listing page
type PuzzleSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	AuthorName string `json:"authorName"`
}

// ClueCount returns the number of clues in the puzzle
func ClueCount(p Puzzle) int {
	return len(p.Clues)
}

// SizeFilter accepts puzzles whose clue count lies strictly between Min and Max
type SizeFilter struct {
	Min int
	Max int
}

// DefaultSizeFilter keeps puzzles with 20 < clues < 25
var DefaultSizeFilter = SizeFilter{Min: 20, Max: 25}

func (f SizeFilter) Accept(p Puzzle) bool {
	n := ClueCount(p)
	return n > f.Min && n < f.Max
}
