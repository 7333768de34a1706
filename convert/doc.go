// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package convert turns Crosshare puzzles into CAPI crosswords.

Crosshare ships a flat, row-major grid and clues keyed by (number,
direction). CAPI wants explicit entries with positions and solutions, so
the converter rebuilds the numbering itself:

  - a cell starts an across word when it is at the left edge or right of
    a block, and the next cell to the right is not a block (down is the
    same, vertically)
  - cells are numbered in row-major order, one number per cell that
    starts any word
  - for each numbered cell, the across entry is emitted before the down
    entry

Single-cell runs are not words. Unfilled cells become spaces in the
solution.
*/
package convert
