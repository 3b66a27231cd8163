package exceltable

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet is returned for sheets without
// any non-empty cells.
var ErrEmptySheet = errors.New("empty sheet")

// ErrSheetNotExist is returned for a sheet name
// that does not exist in the workbook.
type ErrSheetNotExist = excelize.ErrSheetNotExist
