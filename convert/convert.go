// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package convert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/crossword/crosshare"
	"github.com/danielhkuo/crossword/models"
)

const (
	defaultName    = "Untitled"
	defaultCreator = "Unknown"
)

var ErrInvalidGrid = errors.New("invalid grid")

// Grid is a crossword grid indexed [row][col]
type Grid [][]string

// ClueKey identifies a clue by number and Crosshare direction
type ClueKey struct {
	Num int
	Dir int
}

// CrosshareToCAPI converts a Crosshare puzzle to the CAPI crossword shape.
// Number is left at 0 for the caller to assign.
func CrosshareToCAPI(p crosshare.Puzzle, now time.Time) (models.Crossword, error) {
	rows, cols := p.Size.Rows, p.Size.Cols

	grid, err := BuildGrid(p.Grid, rows, cols)
	if err != nil {
		return models.Crossword{}, err
	}

	clues := make(map[ClueKey]string, len(p.Clues))
	for _, c := range p.Clues {
		clues[ClueKey{c.Num, c.Dir}] = c.Clue
	}

	name := p.Title
	if name == "" {
		name = defaultName
	}
	author := p.AuthorName
	if author == "" {
		author = defaultCreator
	}

	ms := now.UnixMilli()
	return models.Crossword{
		ID:                    p.ID,
		Number:                0,
		Name:                  name,
		Creator:               models.Creator{Name: author, WebURL: ""},
		Date:                  ms,
		WebPublicationDate:    ms,
		Dimensions:            models.Dimensions{Cols: cols, Rows: rows},
		CrosswordType:         models.CrosswordTypeQuick,
		SolutionAvailable:     true,
		DateSolutionAvailable: ms,
		Entries:               FindEntries(grid, clues),
	}, nil
}

// BuildGrid reshapes a row-major flat grid
func BuildGrid(flat []string, rows, cols int) (Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGrid, rows, cols)
	}
	if len(flat) < rows*cols {
		return nil, fmt.Errorf("%w: %d cells for %dx%d", ErrInvalidGrid, len(flat), rows, cols)
	}

	grid := make(Grid, rows)
	for r := range rows {
		grid[r] = flat[r*cols : (r+1)*cols : (r+1)*cols]
	}
	return grid, nil
}

func (g Grid) Rows() int { return len(g) }

func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

func IsBlock(cell string) bool {
	return cell == crosshare.Block
}

// IsLetter reports whether a cell holds a filled-in letter
func IsLetter(cell string) bool {
	return cell != crosshare.Block && cell != " " && cell != ""
}

// StartsAcross reports whether (r, c) begins an across word of two or more cells
func StartsAcross(g Grid, r, c int) bool {
	if IsBlock(g[r][c]) {
		return false
	}
	leftBoundary := c == 0 || IsBlock(g[r][c-1])
	continues := c+1 < g.Cols() && !IsBlock(g[r][c+1])
	return leftBoundary && continues
}

// StartsDown reports whether (r, c) begins a down word of two or more cells
func StartsDown(g Grid, r, c int) bool {
	if IsBlock(g[r][c]) {
		return false
	}
	topBoundary := r == 0 || IsBlock(g[r-1][c])
	continues := r+1 < g.Rows() && !IsBlock(g[r+1][c])
	return topBoundary && continues
}

// WordLength counts cells from (r, c) until a block or the grid edge
func WordLength(g Grid, r, c int, direction string) int {
	length := 0
	if direction == models.DirectionAcross {
		for c+length < g.Cols() && !IsBlock(g[r][c+length]) {
			length++
		}
	} else {
		for r+length < g.Rows() && !IsBlock(g[r+length][c]) {
			length++
		}
	}
	return length
}

// Solution reads length cells from (r, c), upper-cased; unfilled cells become spaces
func Solution(g Grid, r, c, length int, direction string) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := range length {
		var cell string
		if direction == models.DirectionAcross {
			cell = g[r][c+i]
		} else {
			cell = g[r+i][c]
		}

		if IsLetter(cell) {
			sb.WriteString(strings.ToUpper(cell))
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

type numberedCell struct {
	r, c, num int
}

// FindEntries numbers the grid and builds one entry per word, across
// before down for cells that start both. Missing clues are left empty.
func FindEntries(g Grid, clues map[ClueKey]string) []models.Entry {
	// Row-major numbering: a cell gets a number if it starts any word
	var numbered []numberedCell
	next := 1
	for r := range g.Rows() {
		for c := range g.Cols() {
			if IsBlock(g[r][c]) {
				continue
			}
			if StartsAcross(g, r, c) || StartsDown(g, r, c) {
				numbered = append(numbered, numberedCell{r, c, next})
				next++
			}
		}
	}

	entries := []models.Entry{}
	for _, cell := range numbered {
		if StartsAcross(g, cell.r, cell.c) {
			entries = append(entries, newEntry(g, cell, models.DirectionAcross, clues[ClueKey{cell.num, crosshare.DirAcross}]))
		}
		if StartsDown(g, cell.r, cell.c) {
			entries = append(entries, newEntry(g, cell, models.DirectionDown, clues[ClueKey{cell.num, crosshare.DirDown}]))
		}
	}
	return entries
}

func newEntry(g Grid, cell numberedCell, direction, clue string) models.Entry {
	length := WordLength(g, cell.r, cell.c, direction)
	id := strconv.Itoa(cell.num) + "-" + direction

	return models.Entry{
		ID:                 id,
		Number:             cell.num,
		HumanNumber:        strconv.Itoa(cell.num),
		Clue:               clue,
		Direction:          direction,
		Length:             length,
		Position:           models.Position{X: cell.c, Y: cell.r},
		SeparatorLocations: map[string][]int{},
		Solution:           Solution(g, cell.r, cell.c, length, direction),
		Group:              []string{id},
	}
}
