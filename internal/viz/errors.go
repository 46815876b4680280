package viz

import "errors"

var errNoDefinedCells = errors.New("no defined cells in any aggregate grid")
