package db

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAnalysisID parses a history row id as given on the command line.
func ParseAnalysisID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(arg), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid analysis ID: %s", arg)
	}
	return id, nil
}
