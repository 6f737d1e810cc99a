package normalizer

import (
	"fmt"
	"strings"
)

// InputShapeError reports raw columns entirely absent from a batch schema.
// An all-null column is fine and flows through as nulls; a column the
// upstream never sent at all is a contract violation and must surface.
type InputShapeError struct {
	Missing []string
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("raw batch missing required columns: %s", strings.Join(e.Missing, ", "))
}
